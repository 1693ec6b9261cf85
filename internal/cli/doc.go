// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive commands
// of rigrun-auth.
//
// # Commands
//
//   - tui: the sign-up / sign-in screen (default)
//   - login, signup: authenticate without the TUI
//   - logout: clear the stored session
//   - status: restore the stored session and describe it
//   - config: show, get or set configuration values
//
// Every command accepts --json for machine-readable output.
package cli
