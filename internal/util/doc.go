// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the storage and UI packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFileWithDir: crash-safe file writing with fsync, used for
//     the session file and the configuration file
//
// Display:
//   - TruncateWidth: cut a string to a terminal column width
//   - StringWidth: terminal columns a string occupies
//
// # Usage
//
//	// Write the session file atomically so readers never see half of it
//	err := util.AtomicWriteFileWithDir(path, data, 0600, 0700)
//
//	// Keep a long user id on one line
//	id := util.TruncateWidth(userID, 40)
package util
