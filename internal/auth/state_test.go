// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	s := InitialState()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, DefaultRedirectPath, s.RedirectPath)

	s = Reduce(State{Error: "INVALID_PASSWORD"}, StartAction{})
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, PhaseAuthenticating, s.Phase())

	s = Reduce(s, SuccessAction{Token: "tok", UserID: "u1", IsAdmin: true, ExpiresAt: expires})
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "u1", s.UserID)
	assert.True(t, s.IsAdmin)
	assert.Equal(t, expires, s.ExpiresAt)
	assert.Equal(t, PhaseAuthenticated, s.Phase())

	s = Reduce(s, LogoutAction{})
	assert.Empty(t, s.Token)
	assert.Empty(t, s.UserID)
	assert.False(t, s.IsAdmin)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.Equal(t, PhaseIdle, s.Phase())

	s = Reduce(Reduce(s, StartAction{}), FailAction{Code: "EMAIL_NOT_FOUND"})
	assert.False(t, s.Loading)
	assert.Equal(t, "EMAIL_NOT_FOUND", s.Error)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestReduce_SetRedirectPath(t *testing.T) {
	s := Reduce(InitialState(), SetRedirectPathAction{Path: "/admin"})
	assert.Equal(t, "/admin", s.RedirectPath)

	s = Reduce(s, SetRedirectPathAction{})
	assert.Equal(t, DefaultRedirectPath, s.RedirectPath)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	in := State{Token: "tok"}
	_ = Reduce(in, LogoutAction{})
	assert.Equal(t, "tok", in.Token)
}

func TestStore_NotifiesInDispatchOrder(t *testing.T) {
	store := NewStore(InitialState())

	var got []Action
	unsubscribe := store.Subscribe(func(_ State, a Action) {
		got = append(got, a)
	})

	store.Dispatch(StartAction{})
	store.Dispatch(FailAction{Code: "X"})
	require.Equal(t, []Action{StartAction{}, FailAction{Code: "X"}}, got)

	unsubscribe()
	store.Dispatch(StartAction{})
	assert.Len(t, got, 2)
}

func TestStore_ListenerSeesNewState(t *testing.T) {
	store := NewStore(InitialState())
	var seen State
	store.Subscribe(func(s State, _ Action) { seen = s })

	next := store.Dispatch(SuccessAction{Token: "tok"})
	assert.Equal(t, "tok", seen.Token)
	assert.Equal(t, next, store.State())
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore(InitialState())
	var (
		mu    sync.Mutex
		count int
	)
	store.Subscribe(func(State, Action) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(StartAction{})
			store.Dispatch(FailAction{Code: "X"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, count)
	assert.False(t, store.State().Loading)
}
