// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "time"

// DefaultRedirectPath is where the client goes after signing in unless a
// caller asked for somewhere else.
const DefaultRedirectPath = "/"

// Phase is the coarse authentication state derived from State.
type Phase int

const (
	// PhaseIdle means no session and no attempt in flight.
	PhaseIdle Phase = iota
	// PhaseAuthenticating means an attempt is in flight.
	PhaseAuthenticating
	// PhaseAuthenticated means a token is held.
	PhaseAuthenticated
)

// String returns a string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is everything the view needs to render authentication.
type State struct {
	Loading bool
	// Error is the provider error code of the last failed attempt; empty
	// means no error.
	Error string

	Token     string
	UserID    string
	IsAdmin   bool
	ExpiresAt time.Time

	RedirectPath string
}

// InitialState is the state before anything has been dispatched.
func InitialState() State {
	return State{RedirectPath: DefaultRedirectPath}
}

// IsAuthenticated reports whether a token is held.
func (s State) IsAuthenticated() bool {
	return s.Token != ""
}

// Phase derives the coarse phase. A failed attempt is idle with Error set.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseAuthenticating
	case s.IsAuthenticated():
		return PhaseAuthenticated
	default:
		return PhaseIdle
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

// Action is a state transition message. Only the types below implement it.
type Action interface {
	action()
}

// StartAction begins an attempt.
type StartAction struct{}

// SuccessAction stores the credentials of a completed sign-in.
type SuccessAction struct {
	Token     string
	UserID    string
	IsAdmin   bool
	ExpiresAt time.Time
}

// FailAction records why an attempt failed.
type FailAction struct {
	Code string
}

// LogoutAction drops the session.
type LogoutAction struct{}

// SetRedirectPathAction changes where to go after signing in.
type SetRedirectPathAction struct {
	Path string
}

func (StartAction) action()           {}
func (SuccessAction) action()         {}
func (FailAction) action()            {}
func (LogoutAction) action()          {}
func (SetRedirectPathAction) action() {}

// Reduce returns the state that follows s after a. It has no side effects.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case StartAction:
		s.Error = ""
		s.Loading = true

	case SuccessAction:
		s.Token = a.Token
		s.UserID = a.UserID
		s.IsAdmin = a.IsAdmin
		s.ExpiresAt = a.ExpiresAt
		s.Error = ""
		s.Loading = false

	case FailAction:
		s.Error = a.Code
		s.Loading = false

	case LogoutAction:
		s.Token = ""
		s.UserID = ""
		s.IsAdmin = false
		s.ExpiresAt = time.Time{}
		s.Loading = false

	case SetRedirectPathAction:
		s.RedirectPath = a.Path
		if s.RedirectPath == "" {
			s.RedirectPath = DefaultRedirectPath
		}
	}
	return s
}
