// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components of the auth screens.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App   lipgloss.Style
	Card  lipgloss.Style
	Title lipgloss.Style
	Hint  lipgloss.Style

	// ==========================================================================
	// FORM FIELDS
	// ==========================================================================

	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	FieldInvalid lipgloss.Style
	FieldLabel   lipgloss.Style

	// ==========================================================================
	// BUTTONS
	// ==========================================================================

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style
	Link           lipgloss.Style

	// ==========================================================================
	// FEEDBACK
	// ==========================================================================

	ErrorText   lipgloss.Style
	ErrorWindow lipgloss.Style
	Spinner     lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDsc lipgloss.Style
}

// NewTheme creates a theme. mode is one of ModeAuto, ModeDark or ModeLight;
// anything else is treated as ModeAuto.
func NewTheme(mode string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}

	switch strings.ToLower(mode) {
	case ModeDark:
		t.IsDark = true
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		t.IsDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		t.IsDark = termenv.HasDarkBackground()
	}

	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Padding(1, 2)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3).
		Width(48)

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	fieldBase := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1).
		Width(40)
	t.Field = fieldBase
	t.FieldFocused = fieldBase.BorderForeground(Purple)
	t.FieldInvalid = fieldBase.BorderForeground(Rose)
	t.FieldLabel = lipgloss.NewStyle().Foreground(TextSecondary)

	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2).
		MarginRight(1)
	t.ButtonFocused = t.Button.
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)
	t.ButtonDisabled = t.Button.Foreground(TextMuted)
	t.Link = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.ErrorWindow = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(0, 2)
	t.Spinner = lipgloss.NewStyle().Foreground(Purple)
	t.Success = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.Warning = lipgloss.NewStyle().Foreground(Amber)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDsc = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
	cardWidth := 48
	if width > 0 && width-4 < cardWidth {
		cardWidth = width - 4
	}
	if cardWidth < 20 {
		cardWidth = 20
	}
	t.Card = t.Card.Width(cardWidth)
	fieldWidth := cardWidth - 8
	t.Field = t.Field.Width(fieldWidth)
	t.FieldFocused = t.FieldFocused.Width(fieldWidth)
	t.FieldInvalid = t.FieldInvalid.Width(fieldWidth)
}
