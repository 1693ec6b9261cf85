// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown session backend")

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Path     string // file and sqlite
	RedisURL string
	RedisKey string
}

// Open creates the Repository described by opts.
func Open(opts Options) (Repository, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		if opts.Path == "" {
			return nil, errors.New("session path is required for the file backend")
		}
		return NewFileStore(opts.Path), nil
	case BackendSQLite:
		if opts.Path == "" {
			return nil, errors.New("session path is required for the sqlite backend")
		}
		return NewSQLiteStore(opts.Path)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, errors.New("redis url is required for the redis backend")
		}
		return NewRedisStore(opts.RedisURL, opts.RedisKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
