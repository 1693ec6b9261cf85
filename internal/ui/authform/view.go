// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-auth/internal/ui/styles"
	"github.com/jeranaias/rigrun-auth/internal/util"
)

// maxUserIDWidth keeps long provider ids on one line.
const maxUserIDWidth = 40

// View renders the screen.
func (m Model) View() string {
	var body string
	switch {
	case m.state.Loading:
		body = m.viewLoading()
	case m.state.IsAuthenticated():
		body = m.viewSignedIn()
	default:
		body = m.viewForm()
	}

	parts := []string{m.theme.Card.Render(body)}
	if w := m.window.View(); w != "" {
		parts = append(parts, w)
	}
	content := m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) viewLoading() string {
	return m.spinner.View() + " " + m.theme.Hint.Render("Talking to the identity provider...")
}

func (m Model) viewForm() string {
	t := m.theme
	var lines []string

	lines = append(lines, t.Title.Render(m.form.Title()))

	if msg := MessageFor(m.state.Error); msg != "" {
		lines = append(lines, t.ErrorText.Render(styles.StatusIndicators.Error+" "+msg), "")
	}

	for i, f := range m.form.Fields {
		style := t.Field
		switch {
		case f.ShowInvalid():
			style = t.FieldInvalid
		case m.focus == i:
			style = t.FieldFocused
		}
		lines = append(lines, style.Render(m.inputs[i].View()))
	}
	lines = append(lines, "")

	submit := t.Button.Render(SubmitLabel)
	if m.focus == focusSubmit {
		submit = t.ButtonFocused.Render(SubmitLabel)
	}
	toggle := t.Button.Render(m.form.SwitchLabel())
	if m.focus == focusSwitch {
		toggle = t.ButtonFocused.Render(m.form.SwitchLabel())
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, submit, toggle), "")
	lines = append(lines, m.renderHelp(m.keys.ShortHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewSignedIn() string {
	t := m.theme
	role := "user"
	if m.state.IsAdmin {
		role = "administrator"
	}
	lines := []string{
		t.Success.Render(styles.StatusIndicators.Success + " Signed in"),
		"",
		t.FieldLabel.Render("User:  ") + util.TruncateWidth(m.state.UserID, maxUserIDWidth),
		t.FieldLabel.Render("Role:  ") + role,
		t.FieldLabel.Render("Next:  ") + m.state.RedirectPath,
	}
	if banner := m.banner.View(); banner != "" {
		lines = append(lines, "", banner)
	}
	lines = append(lines, "", m.renderHelp(m.keys.SignedInHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDsc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
