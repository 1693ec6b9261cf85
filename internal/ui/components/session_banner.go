// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-auth/internal/ui/styles"
)

// DefaultWarningThreshold is when the banner turns amber.
const DefaultWarningThreshold = 2 * time.Minute

// SessionBanner counts down to the session's expiration.
type SessionBanner struct {
	expiresAt        time.Time
	warningThreshold time.Duration
	now              func() time.Time
}

// SessionTickMsg signals a countdown tick.
type SessionTickMsg struct {
	Time time.Time
}

// SessionTickCmd returns a command that ticks once a second.
func SessionTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return SessionTickMsg{Time: t}
	})
}

// NewSessionBanner creates a banner with no session.
func NewSessionBanner() SessionBanner {
	return SessionBanner{
		warningThreshold: DefaultWarningThreshold,
		now:              time.Now,
	}
}

// SetExpiresAt sets the deadline; the zero time hides the banner.
func (b *SessionBanner) SetExpiresAt(t time.Time) {
	b.expiresAt = t
}

// Remaining returns the time left, never negative.
func (b SessionBanner) Remaining() time.Duration {
	if b.expiresAt.IsZero() {
		return 0
	}
	d := b.expiresAt.Sub(b.now())
	if d < 0 {
		return 0
	}
	return d
}

// Warning reports whether the session is about to expire.
func (b SessionBanner) Warning() bool {
	return !b.expiresAt.IsZero() && b.Remaining() <= b.warningThreshold
}

// View renders the countdown.
func (b SessionBanner) View() string {
	if b.expiresAt.IsZero() {
		return ""
	}
	text := "Session expires in " + formatTimeRemaining(b.Remaining())
	if b.Warning() {
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true).
			Render(styles.StatusIndicators.Warning + " " + text)
	}
	return lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(text)
}

// formatTimeRemaining formats a duration as H:MM:SS or M:SS.
func formatTimeRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSecs := int(d.Seconds())
	hours := totalSecs / 3600
	mins := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
