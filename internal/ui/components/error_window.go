// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the rigrun-auth TUI.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-auth/internal/ui/styles"
	"github.com/jeranaias/rigrun-auth/internal/util"
)

// DefaultErrorWindowDuration is how long a request error stays on screen.
const DefaultErrorWindowDuration = 8 * time.Second

const maxMessageLines = 4

// =============================================================================
// ERROR WINDOW
// =============================================================================

// ErrorWindow shows the last failed request. It is fed from the error slot
// of the HTTP interceptor: a new error replaces the old one and a cleared
// slot hides the window.
type ErrorWindow struct {
	message   string
	shownAt   time.Time
	duration  time.Duration
	width     int
	now       func() time.Time
	dismissed bool
}

// NewErrorWindow creates a hidden error window.
func NewErrorWindow() ErrorWindow {
	return ErrorWindow{
		duration: DefaultErrorWindowDuration,
		now:      time.Now,
	}
}

// ErrorSlotMsg carries the error slot's new value; nil means cleared.
type ErrorSlotMsg struct {
	Err error
}

// ErrorWindowTickMsg re-checks auto-dismissal.
type ErrorWindowTickMsg struct {
	Time time.Time
}

// ErrorWindowTickCmd returns a command that ticks once a second.
func ErrorWindowTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ErrorWindowTickMsg{Time: t}
	})
}

// SetDuration sets the auto-dismiss delay. Zero keeps the window until the
// slot is cleared or the user dismisses it.
func (w *ErrorWindow) SetDuration(d time.Duration) {
	w.duration = d
}

// SetWidth sets the available width.
func (w *ErrorWindow) SetWidth(width int) {
	w.width = width
}

// Show displays err, or hides the window when err is nil.
func (w *ErrorWindow) Show(err error) {
	if err == nil {
		w.Hide()
		return
	}
	w.message = err.Error()
	w.shownAt = w.now()
	w.dismissed = false
}

// Hide hides the window.
func (w *ErrorWindow) Hide() {
	w.message = ""
	w.dismissed = false
}

// Visible reports whether the window has something to show.
func (w ErrorWindow) Visible() bool {
	if w.message == "" || w.dismissed {
		return false
	}
	if w.duration > 0 && w.now().Sub(w.shownAt) >= w.duration {
		return false
	}
	return true
}

// Update handles slot changes, ticks and the dismiss key.
func (w ErrorWindow) Update(msg tea.Msg) (ErrorWindow, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorSlotMsg:
		w.Show(msg.Err)
		if msg.Err != nil && w.duration > 0 {
			return w, ErrorWindowTickCmd()
		}

	case ErrorWindowTickMsg:
		if w.Visible() {
			return w, ErrorWindowTickCmd()
		}

	case tea.KeyMsg:
		if w.Visible() && msg.Type == tea.KeyEsc {
			w.dismissed = true
		}
	}
	return w, nil
}

// View renders the window, or "" when hidden.
func (w ErrorWindow) View() string {
	if !w.Visible() {
		return ""
	}

	maxWidth := 60
	if w.width > 0 && w.width-8 < maxWidth {
		maxWidth = w.width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	title := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render(styles.StatusIndicators.Error + " Request failed")
	body := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 6).
		Render(util.TruncateWidth(w.message, (maxWidth-6)*maxMessageLines))
	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("esc to dismiss")

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Rose).
		Padding(0, 2).
		Width(maxWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body, hint))
}
