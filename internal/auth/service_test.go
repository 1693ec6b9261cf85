// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider answers every call with resp or err and records what it saw.
type fakeProvider struct {
	resp   *identity.Response
	err    error
	creds  identity.Credentials
	signUp bool
	calls  int
}

func (f *fakeProvider) Authenticate(_ context.Context, creds identity.Credentials, signUp bool) (*identity.Response, error) {
	f.calls++
	f.creds = creds
	f.signUp = signUp
	return f.resp, f.err
}

func okProvider(expiresIn time.Duration) *fakeProvider {
	return &fakeProvider{resp: &identity.Response{
		IDToken:   "id-token",
		LocalID:   "user-1",
		ExpiresIn: identity.Seconds(expiresIn),
	}}
}

// failingRepo is a repository whose writes always fail.
type failingRepo struct{ session.MemoryStore }

func (f *failingRepo) Set(context.Context, session.Session) error { return errors.New("disk full") }

var fixedNow = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo session.Repository, provider identity.Authenticator, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := NewService(NewStore(InitialState()), repo, provider, opts...)
	t.Cleanup(svc.Scheduler().Cancel)
	return svc
}

func TestAuthenticate_Success(t *testing.T) {
	repo := session.NewMemoryStore()
	provider := okProvider(3600 * time.Second)
	svc := newTestService(t, repo, provider)

	var actions []Action
	svc.Store().Subscribe(func(_ State, a Action) { actions = append(actions, a) })

	require.NoError(t, svc.Authenticate(context.Background(), "  ab@cd.com ", "abc123", false))

	assert.Equal(t, "ab@cd.com", provider.creds.Email)
	assert.False(t, provider.signUp)

	raw := repo.Raw()
	for _, k := range session.Keys {
		assert.Contains(t, raw, k)
	}
	assert.Equal(t, "id-token", raw[session.KeyToken])
	assert.Equal(t, "user-1", raw[session.KeyUserID])
	assert.Equal(t, "false", raw[session.KeyIsAdmin])

	st := svc.Store().State()
	assert.Equal(t, PhaseAuthenticated, st.Phase())
	assert.Equal(t, fixedNow.Add(time.Hour), st.ExpiresAt)
	assert.True(t, svc.Scheduler().Active())
	assert.Equal(t, fixedNow.Add(time.Hour), svc.Scheduler().Deadline())

	require.Len(t, actions, 2)
	assert.IsType(t, StartAction{}, actions[0])
	assert.IsType(t, SuccessAction{}, actions[1])
}

func TestAuthenticate_SignUpFlag(t *testing.T) {
	provider := okProvider(time.Hour)
	svc := newTestService(t, session.NewMemoryStore(), provider)
	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", true))
	assert.True(t, provider.signUp)
}

func TestAuthenticate_ProviderFailure(t *testing.T) {
	repo := session.NewMemoryStore()
	provider := &fakeProvider{err: &identity.ProviderError{Status: 400, Code: identity.CodeInvalidPassword}}
	svc := newTestService(t, repo, provider)

	err := svc.Authenticate(context.Background(), "ab@cd.com", "wrong1", false)
	require.Error(t, err)

	st := svc.Store().State()
	assert.Equal(t, identity.CodeInvalidPassword, st.Error)
	assert.False(t, st.Loading)
	assert.False(t, st.IsAuthenticated())
	assert.Empty(t, repo.Raw())
	assert.False(t, svc.Scheduler().Active())
}

func TestAuthenticate_FailureCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not configured", identity.ErrNotConfigured, CodeNotConfigured},
		{"rate limited", identity.ErrRateLimited, identity.CodeTooManyAttempts},
		{"network", &identity.ProviderError{Code: identity.CodeNetwork}, identity.CodeNetwork},
		{"plain error", errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, session.NewMemoryStore(), &fakeProvider{err: tt.err})
			_ = svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false)
			assert.Equal(t, tt.want, svc.Store().State().Error)
		})
	}
}

func TestAuthenticate_StorageFailure(t *testing.T) {
	repo := &failingRepo{}
	svc := newTestService(t, repo, okProvider(time.Hour))

	err := svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false)
	require.Error(t, err)

	st := svc.Store().State()
	assert.Equal(t, CodeStorage, st.Error)
	assert.False(t, st.IsAuthenticated())
	assert.False(t, svc.Scheduler().Active())
}

func TestAuthenticate_AdminFromResolver(t *testing.T) {
	repo := session.NewMemoryStore()
	svc := newTestService(t, repo, okProvider(time.Hour),
		WithRoleResolver(NewRoleResolver("", []string{"user-1"})))

	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false))
	assert.True(t, svc.Store().State().IsAdmin)
	assert.Equal(t, "true", repo.Raw()[session.KeyIsAdmin])
}

func TestAuthenticate_ExpiryLogsOut(t *testing.T) {
	repo := session.NewMemoryStore()
	svc := NewService(NewStore(InitialState()), repo, okProvider(30*time.Millisecond))
	t.Cleanup(svc.Scheduler().Cancel)

	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false))
	require.True(t, svc.Store().State().IsAuthenticated())

	require.Eventually(t, func() bool {
		return !svc.Store().State().IsAuthenticated()
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, repo.Raw())
}

func TestRestore(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		svc := newTestService(t, session.NewMemoryStore(), &fakeProvider{})
		require.NoError(t, svc.Restore(context.Background()))
		assert.Equal(t, PhaseIdle, svc.Store().State().Phase())
		assert.False(t, svc.Scheduler().Active())
	})

	t.Run("expired", func(t *testing.T) {
		repo := session.NewMemoryStore()
		require.NoError(t, repo.Set(context.Background(), session.Session{
			IDToken: "tok", UserID: "u", ExpirationDate: fixedNow.Add(-time.Minute),
		}))
		svc := newTestService(t, repo, &fakeProvider{})

		require.NoError(t, svc.Restore(context.Background()))
		assert.Equal(t, PhaseIdle, svc.Store().State().Phase())
		assert.Empty(t, repo.Raw())
	})

	t.Run("expires exactly now", func(t *testing.T) {
		repo := session.NewMemoryStore()
		require.NoError(t, repo.Set(context.Background(), session.Session{
			IDToken: "tok", UserID: "u", ExpirationDate: fixedNow,
		}))
		svc := newTestService(t, repo, &fakeProvider{})

		require.NoError(t, svc.Restore(context.Background()))
		assert.False(t, svc.Store().State().IsAuthenticated())
	})

	t.Run("valid", func(t *testing.T) {
		repo := session.NewMemoryStore()
		require.NoError(t, repo.Set(context.Background(), session.Session{
			IDToken: "tok", UserID: "u", IsAdmin: true, ExpirationDate: fixedNow.Add(10 * time.Minute),
		}))
		svc := newTestService(t, repo, &fakeProvider{})

		require.NoError(t, svc.Restore(context.Background()))
		st := svc.Store().State()
		assert.Equal(t, "tok", st.Token)
		assert.Equal(t, "u", st.UserID)
		assert.True(t, st.IsAdmin)
		assert.Equal(t, fixedNow.Add(10*time.Minute), svc.Scheduler().Deadline())
	})
}

func TestLogout_ClearsStorageBeforeNotifying(t *testing.T) {
	repo := session.NewMemoryStore()
	svc := newTestService(t, repo, okProvider(time.Hour))
	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false))

	var rawAtLogout map[string]string
	svc.Store().Subscribe(func(_ State, a Action) {
		if _, ok := a.(LogoutAction); ok {
			rawAtLogout = repo.Raw()
		}
	})

	require.NoError(t, svc.Logout(context.Background()))
	require.NotNil(t, rawAtLogout)
	assert.Empty(t, rawAtLogout)
	assert.False(t, svc.Scheduler().Active())
	assert.False(t, svc.Store().State().IsAuthenticated())
}

// slowRepo applies writes right away but acknowledges them late.
type slowRepo struct {
	*session.MemoryStore
	delay time.Duration
}

func (r slowRepo) Set(ctx context.Context, s session.Session) error {
	err := r.MemoryStore.Set(ctx, s)
	time.Sleep(r.delay)
	return err
}

func TestAuthenticate_ReplacesPendingExpiry(t *testing.T) {
	ctx := context.Background()
	repo := slowRepo{MemoryStore: session.NewMemoryStore(), delay: 60 * time.Millisecond}
	provider := okProvider(20 * time.Millisecond)
	svc := newTestService(t, repo, provider)

	require.NoError(t, svc.Authenticate(ctx, "ab@cd.com", "abc123", false))
	require.True(t, svc.Scheduler().Active())

	// The first session's timer would fire while the second write is still
	// being acknowledged.
	provider.resp = &identity.Response{IDToken: "id-token-2", LocalID: "user-1", ExpiresIn: identity.Seconds(time.Hour)}
	require.NoError(t, svc.Authenticate(ctx, "ab@cd.com", "abc123", false))
	time.Sleep(50 * time.Millisecond)

	st := svc.Store().State()
	assert.Equal(t, "id-token-2", st.Token)
	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id-token-2", stored.IDToken)
	assert.Equal(t, fixedNow.Add(time.Hour), svc.Scheduler().Deadline())
}

func TestExpire_IgnoresReplacedSession(t *testing.T) {
	repo := session.NewMemoryStore()
	provider := okProvider(time.Hour)
	svc := newTestService(t, repo, provider)

	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false))
	svc.mu.Lock()
	stale := svc.epoch
	svc.mu.Unlock()

	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false))
	svc.expire(stale)

	assert.True(t, svc.Store().State().IsAuthenticated())
	assert.Equal(t, "id-token", repo.Raw()[session.KeyToken])
}

func TestAuthenticate_FailedRetryKeepsExpiry(t *testing.T) {
	provider := okProvider(time.Hour)
	svc := newTestService(t, session.NewMemoryStore(), provider)
	require.NoError(t, svc.Authenticate(context.Background(), "ab@cd.com", "abc123", false))

	provider.resp = nil
	provider.err = &identity.ProviderError{Status: 400, Code: identity.CodeInvalidPassword}
	require.Error(t, svc.Authenticate(context.Background(), "ab@cd.com", "wrong1", false))

	st := svc.Store().State()
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, identity.CodeInvalidPassword, st.Error)
	assert.True(t, svc.Scheduler().Active())
	assert.Equal(t, fixedNow.Add(time.Hour), svc.Scheduler().Deadline())
}
