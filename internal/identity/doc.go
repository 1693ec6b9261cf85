// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity talks to the e-mail/password identity provider.
//
// The provider exposes two endpoints, one to create an account and one to
// verify a password. Both take {email, password, returnSecureToken} and answer
// with {idToken, localId, expiresIn} or {error: {message: CODE}}.
//
// Every request made by the Client passes through an Interceptor that clears
// a shared ErrorSlot when a request starts and records a failure when one
// comes back, so a single error window can show the latest network failure.
package identity
