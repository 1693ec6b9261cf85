// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth holds the client-side authentication state and its lifecycle.
//
// # State Container
//
// State is only changed by dispatching one of the actions to a Store:
//
//	StartAction    -> loading, error cleared
//	SuccessAction  -> token, user and expiry stored
//	FailAction     -> error code stored, back to idle
//	LogoutAction   -> session fields cleared, back to idle
//
// Reduce is the pure transition function; Store serializes dispatches and
// tells subscribers about each one in order.
//
// # Session Lifecycle
//
// Service drives the flows that touch the outside world: Authenticate calls
// the identity provider, persists the session and arms the expiry Scheduler;
// Restore re-enters the authenticated state from the session repository on
// start; Logout clears the repository before the state, so nobody observes a
// logged-out state with a stored token.
package auth
