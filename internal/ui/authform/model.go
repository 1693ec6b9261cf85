// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rigrun-auth/internal/auth"
	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/ui/components"
	"github.com/jeranaias/rigrun-auth/internal/ui/styles"
)

// DefaultRequestTimeout bounds one submit or logout.
const DefaultRequestTimeout = 30 * time.Second

// Service is the part of auth.Service the screen drives.
type Service interface {
	Authenticate(ctx context.Context, email, password string, signUp bool) error
	Restore(ctx context.Context) error
	Logout(ctx context.Context) error
}

// focus targets, in tab order.
const (
	focusEmail = iota
	focusPassword
	focusSubmit
	focusSwitch
	focusCount
)

// =============================================================================
// MESSAGES
// =============================================================================

// StateMsg carries a store change into the program.
type StateMsg struct {
	State  auth.State
	Action auth.Action
}

// SubmitDoneMsg reports the end of a submit. Err is informational; the
// outcome already reached the model through StateMsg.
type SubmitDoneMsg struct {
	Err error
}

// RestoreDoneMsg reports the end of session restoration.
type RestoreDoneMsg struct {
	Err error
}

// LogoutDoneMsg reports the end of a logout.
type LogoutDoneMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures a Model.
type Options struct {
	Theme   *styles.Theme
	Logger  zerolog.Logger
	Slot    *identity.ErrorSlot // cleared when the error window is dismissed
	Timeout time.Duration
	// SkipRestore leaves session restoration to the caller.
	SkipRestore bool
}

// Model is the Bubble Tea model of the auth screen.
type Model struct {
	svc     Service
	form    *Form
	inputs  []textinput.Model
	focus   int
	state   auth.State
	keys    KeyMap
	spinner spinner.Model
	window  components.ErrorWindow
	banner  components.SessionBanner
	theme   *styles.Theme
	logger  zerolog.Logger
	slot    *identity.ErrorSlot
	timeout time.Duration
	restore bool

	width  int
	height int
}

// New creates the auth screen showing initial.
func New(svc Service, initial auth.State, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	form := NewForm()
	inputs := make([]textinput.Model, len(form.Fields))
	for i, f := range form.Fields {
		ti := textinput.New()
		ti.Placeholder = f.Config.Placeholder
		ti.CharLimit = 256
		ti.Prompt = ""
		if f.Config.Type == "password" {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		inputs[i] = ti
	}
	inputs[focusEmail].Focus()

	sp := spinner.New()
	sp.Spinner = styles.LineSpinner.Bubble()
	sp.Style = theme.Spinner

	banner := components.NewSessionBanner()
	banner.SetExpiresAt(initial.ExpiresAt)

	return Model{
		svc:     svc,
		form:    form,
		inputs:  inputs,
		focus:   focusEmail,
		state:   initial,
		keys:    DefaultKeyMap(),
		spinner: sp,
		window:  components.NewErrorWindow(),
		banner:  banner,
		theme:   theme,
		logger:  opts.Logger,
		slot:    opts.Slot,
		timeout: timeout,
		restore: !opts.SkipRestore,
	}
}

// Form returns the form being edited.
func (m Model) Form() *Form { return m.form }

// State returns the last auth state the model saw.
func (m Model) State() auth.State { return m.state }

// Init starts the cursor blink and restores any stored session.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.restore {
		cmds = append(cmds, m.restoreCmd())
	}
	if m.state.Loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.state.IsAuthenticated() {
		cmds = append(cmds, components.SessionTickCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.window.SetWidth(msg.Width)
		return m, nil

	case StateMsg:
		return m.handleState(msg)

	case components.ErrorSlotMsg, components.ErrorWindowTickMsg:
		var cmd tea.Cmd
		m.window, cmd = m.window.Update(msg)
		return m, cmd

	case components.SessionTickMsg:
		if m.state.IsAuthenticated() {
			return m, components.SessionTickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case SubmitDoneMsg, RestoreDoneMsg, LogoutDoneMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleState(msg StateMsg) (tea.Model, tea.Cmd) {
	wasLoading := m.state.Loading
	wasAuthenticated := m.state.IsAuthenticated()
	m.state = msg.State
	m.banner.SetExpiresAt(msg.State.ExpiresAt)

	var cmds []tea.Cmd
	if m.state.Loading && !wasLoading {
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.state.IsAuthenticated() && !wasAuthenticated {
		cmds = append(cmds, components.SessionTickCmd())
	}

	switch a := msg.Action.(type) {
	case auth.FailAction:
		if MessageFor(a.Code) == "" {
			m.logger.Warn().Str("code", a.Code).Msg("no message for auth error code")
		}
	case auth.LogoutAction:
		m.clearPassword()
		m.setFocus(focusEmail)
		cmds = append(cmds, textinput.Blink)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Dismiss) && m.window.Visible() {
		var cmd tea.Cmd
		m.window, cmd = m.window.Update(msg)
		if m.slot != nil {
			m.slot.Clear()
		}
		return m, cmd
	}

	if m.state.Loading {
		return m, nil
	}

	if m.state.IsAuthenticated() {
		switch {
		case key.Matches(msg, m.keys.Logout):
			return m, m.logoutCmd()
		case msg.String() == "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.keys.Switch):
		m.form.ToggleMode()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusSwitch {
			m.form.ToggleMode()
			return m, nil
		}
		return m.submit()
	}

	return m.updateFocusedInput(msg)
}

// submit applies the form's submit rules and starts the request.
func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, ok := m.form.Submit()
	if !ok {
		if m.form.Field(FieldPassword).Value == "" {
			m.setFocus(focusPassword)
		} else {
			m.setFocus(focusEmail)
		}
		return m, nil
	}
	return m, m.submitCmd(sub)
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) || m.state.Loading || m.state.IsAuthenticated() {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.form.Change(m.form.Fields[m.focus].Name, after)
	}
	return m, cmd
}

func (m *Model) setFocus(target int) {
	m.focus = target
	for i := range m.inputs {
		if i == target {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) clearPassword() {
	for i, f := range m.form.Fields {
		if f.Name == FieldPassword {
			m.inputs[i].SetValue("")
			m.form.Fields[i].Value = ""
			m.form.Fields[i].Valid = false
			m.form.Fields[i].Touched = false
		}
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) submitCmd(sub Submission) tea.Cmd {
	svc, timeout := m.svc, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return SubmitDoneMsg{Err: svc.Authenticate(ctx, sub.Email, sub.Password, sub.SignUp)}
	}
}

func (m Model) restoreCmd() tea.Cmd {
	svc, timeout := m.svc, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return RestoreDoneMsg{Err: svc.Restore(ctx)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	svc, timeout := m.svc, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return LogoutDoneMsg{Err: svc.Logout(ctx)}
	}
}
