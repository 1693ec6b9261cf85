// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/session"
	"github.com/jeranaias/rigrun-auth/internal/validation"
	"github.com/rs/zerolog"
)

// Codes for failures that do not come from the provider.
const (
	CodeNotConfigured = "NOT_CONFIGURED"
	CodeStorage       = "SESSION_STORAGE_ERROR"
	CodeUnknown       = "UNKNOWN_ERROR"
)

// Service runs the authentication flows against a Store.
//
// mu serializes repository writes with expiry. epoch changes whenever the
// current session is replaced or dropped, so an expiry armed for an older
// session never clears a newer one.
type Service struct {
	mu    sync.Mutex
	epoch uint64

	store     *Store
	repo      session.Repository
	provider  identity.Authenticator
	scheduler *Scheduler
	roles     *RoleResolver
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.scheduler.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRoleResolver sets how the admin flag is derived.
func WithRoleResolver(r *RoleResolver) Option {
	return func(s *Service) { s.roles = r }
}

// NewService wires a store to a session repository and a provider.
func NewService(store *Store, repo session.Repository, provider identity.Authenticator, opts ...Option) *Service {
	s := &Service{
		store:     store,
		repo:      repo,
		provider:  provider,
		scheduler: NewScheduler(),
		roles:     NewRoleResolver("", nil),
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the state container.
func (s *Service) Store() *Store { return s.store }

// Scheduler returns the expiry scheduler.
func (s *Service) Scheduler() *Scheduler { return s.scheduler }

// Authenticate signs up (signUp=true) or signs in. On success the session is
// persisted, the store holds the token and logout is armed for expiry. On
// failure the store holds the error code and the error is returned.
func (s *Service) Authenticate(ctx context.Context, email, password string, signUp bool) error {
	s.store.Dispatch(StartAction{})
	s.invalidate()

	creds := identity.Credentials{
		Email:    validation.NormalizeEmail(email),
		Password: password,
	}
	resp, err := s.provider.Authenticate(ctx, creds, signUp)
	if err != nil {
		code := failureCode(err)
		s.logger.Debug().Err(err).Str("code", code).Bool("sign_up", signUp).Msg("authentication failed")
		s.store.Dispatch(FailAction{Code: code})
		s.resume()
		return err
	}

	lifetime := resp.ExpiresIn.Duration()
	sess := session.Session{
		IDToken:        resp.IDToken,
		UserID:         resp.LocalID,
		IsAdmin:        s.isAdmin(resp.IDToken, resp.LocalID),
		ExpirationDate: s.now().Add(lifetime),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Set(ctx, sess); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		s.store.Dispatch(FailAction{Code: CodeStorage})
		s.resumeLocked()
		return fmt.Errorf("persist session: %w", err)
	}

	s.epoch++
	s.store.Dispatch(successFor(sess))
	s.armLocked(lifetime)
	s.logger.Info().Str("user_id", sess.UserID).Bool("admin", sess.IsAdmin).
		Time("expires_at", sess.ExpirationDate).Msg("signed in")
	return nil
}

// Restore re-enters the authenticated state from the repository. A missing,
// unreadable or expired session ends in the logged-out state.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.repo.Get(ctx)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return s.logoutLocked(ctx)
	case err != nil:
		s.logger.Warn().Err(err).Msg("discarding unreadable session")
		if lerr := s.logoutLocked(ctx); lerr != nil {
			return errors.Join(err, lerr)
		}
		return nil
	}

	now := s.now()
	if sess.Expired(now) {
		s.logger.Info().Time("expired_at", sess.ExpirationDate).Msg("stored session expired")
		return s.logoutLocked(ctx)
	}

	s.epoch++
	s.store.Dispatch(successFor(*sess))
	s.armLocked(sess.Remaining(now))
	s.logger.Debug().Str("user_id", sess.UserID).Dur("remaining", sess.Remaining(now)).Msg("session restored")
	return nil
}

// Logout stops the expiry timer and clears the repository, then the state.
// The state is cleared even when the repository fails.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutLocked(ctx)
}

func (s *Service) logoutLocked(ctx context.Context) error {
	s.epoch++
	s.scheduler.Cancel()
	err := s.repo.Clear(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session")
		err = fmt.Errorf("clear session: %w", err)
	}
	s.store.Dispatch(LogoutAction{})
	return err
}

// invalidate drops the pending expiry before a new attempt starts.
func (s *Service) invalidate() {
	s.mu.Lock()
	s.epoch++
	s.scheduler.Cancel()
	s.mu.Unlock()
}

// resume re-arms expiry for a session that outlived a failed attempt.
func (s *Service) resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeLocked()
}

func (s *Service) resumeLocked() {
	st := s.store.State()
	if !st.IsAuthenticated() {
		return
	}
	s.armLocked(st.ExpiresAt.Sub(s.now()))
}

func (s *Service) armLocked(d time.Duration) {
	epoch := s.epoch
	s.scheduler.Schedule(d, func() { s.expire(epoch) })
}

func (s *Service) expire(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.logger.Debug().Msg("ignoring expiry of a replaced session")
		return
	}
	s.logger.Info().Msg("session expired, logging out")
	if err := s.logoutLocked(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("logout on expiry")
	}
}

func (s *Service) isAdmin(idToken, userID string) bool {
	admin, err := s.roles.IsAdmin(idToken, userID)
	if err != nil {
		s.logger.Debug().Err(err).Msg("no admin claim readable from id token")
	}
	return admin
}

func successFor(sess session.Session) SuccessAction {
	return SuccessAction{
		Token:     sess.IDToken,
		UserID:    sess.UserID,
		IsAdmin:   sess.IsAdmin,
		ExpiresAt: sess.ExpirationDate,
	}
}

func failureCode(err error) string {
	if errors.Is(err, identity.ErrNotConfigured) {
		return CodeNotConfigured
	}
	if code := identity.CodeOf(err); code != "" {
		return code
	}
	return CodeUnknown
}
