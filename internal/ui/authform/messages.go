// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import "github.com/jeranaias/rigrun-auth/internal/identity"

// Messages maps provider error codes to what the user is shown.
var Messages = map[string]string{
	identity.CodeEmailExists:     "This E-mail already exists!",
	identity.CodeTooManyAttempts: "Too many attempts. Try again later",
	identity.CodeEmailNotFound:   "This E-mail was not found!",
	identity.CodeInvalidPassword: "This password is incorrect!",
	identity.CodeUserDisabled:    "This user has been disabled by Administrator!",
}

// MessageFor returns the text for code, or "" when there is none.
func MessageFor(code string) string {
	return Messages[code]
}
