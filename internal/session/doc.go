// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the record of a successful sign-in across runs.
//
// A Session is stored as four string-encoded keys: token, expirationDate,
// userId and isAdmin. Backends write and clear all four together.
//
// # Key Types
//
//   - Session: token, owner id, admin flag and expiry
//   - Repository: narrow Get/Set/Clear interface over a backend
//   - MemoryStore, FileStore, SQLiteStore, RedisStore: backends
//
// # Usage
//
//	repo, err := session.Open(session.Options{Backend: "file", Path: path})
//	if err != nil {
//	    return err
//	}
//	defer repo.Close()
//
//	s, err := repo.Get(ctx)
//	if errors.Is(err, session.ErrNotFound) {
//	    // nobody signed in
//	}
package session
