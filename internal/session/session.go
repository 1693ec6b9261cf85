// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Storage keys. Every value is string-encoded.
const (
	KeyToken          = "token"
	KeyExpirationDate = "expirationDate"
	KeyUserID         = "userId"
	KeyIsAdmin        = "isAdmin"
)

// Keys lists every key a session occupies.
var Keys = []string{KeyToken, KeyExpirationDate, KeyUserID, KeyIsAdmin}

var (
	// ErrNotFound is returned by Get when no session is stored.
	ErrNotFound = errors.New("no stored session")

	// ErrCorrupt is returned by Get when the stored keys cannot be decoded.
	ErrCorrupt = errors.New("stored session is corrupt")
)

// Session is the persisted record of a successful sign-in.
type Session struct {
	IDToken        string
	UserID         string
	IsAdmin        bool
	ExpirationDate time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpirationDate.After(now)
}

// Remaining returns the lifetime left at now, never negative.
func (s Session) Remaining(now time.Time) time.Duration {
	d := s.ExpirationDate.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Encode flattens the session into its storage keys.
func (s Session) Encode() map[string]string {
	return map[string]string{
		KeyToken:          s.IDToken,
		KeyExpirationDate: s.ExpirationDate.UTC().Format(time.RFC3339Nano),
		KeyUserID:         s.UserID,
		KeyIsAdmin:        strconv.FormatBool(s.IsAdmin),
	}
}

// Decode rebuilds a session from its storage keys. A missing or empty token
// means no session and yields ErrNotFound.
func Decode(values map[string]string) (*Session, error) {
	token := values[KeyToken]
	if token == "" {
		return nil, ErrNotFound
	}

	exp, err := time.Parse(time.RFC3339Nano, values[KeyExpirationDate])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyExpirationDate, err)
	}

	// Anything other than the literal "true" is not an admin.
	return &Session{
		IDToken:        token,
		UserID:         values[KeyUserID],
		IsAdmin:        values[KeyIsAdmin] == "true",
		ExpirationDate: exp,
	}, nil
}

// Repository is the narrow persistence interface the auth flow depends on.
// Set and Clear touch all keys together from the caller's point of view.
type Repository interface {
	Get(ctx context.Context) (*Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
	Close() error
}
