// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-auth/internal/auth"
	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/ui/components"
	"github.com/jeranaias/rigrun-auth/internal/ui/styles"
)

type call struct {
	email, password string
	signUp          bool
}

type fakeService struct {
	mu       sync.Mutex
	calls    []call
	logouts  int
	restores int
}

func (f *fakeService) Authenticate(_ context.Context, email, password string, signUp bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{email, password, signUp})
	return nil
}

func (f *fakeService) Restore(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restores++
	return nil
}

func (f *fakeService) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return nil
}

func newTestModel(svc Service) Model {
	return New(svc, auth.InitialState(), Options{Theme: styles.NewTheme(styles.ModeDark), SkipRestore: true})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestModel_TypingUpdatesField(t *testing.T) {
	m := newTestModel(&fakeService{})

	m = typeText(t, m, "ab@c")
	email := m.Form().Field(FieldEmail)
	assert.Equal(t, "ab@c", email.Value)
	assert.True(t, email.Touched)
	assert.False(t, email.Valid)

	m = typeText(t, m, "d.com")
	assert.True(t, m.Form().Field(FieldEmail).Valid)
	assert.False(t, m.Form().Field(FieldPassword).Touched)
}

func TestModel_SubmitRules(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.Form().Field(FieldPassword).Touched)
	assert.False(t, m.Form().Field(FieldEmail).Touched)

	// The failed submit moved focus to the password field.
	require.Equal(t, focusPassword, m.focus)
	m = typeText(t, m, "abc123")
	assert.Equal(t, "abc123", m.Form().Field(FieldPassword).Value)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	// Focus wrapped: password -> submit -> switch -> email -> password.
	require.Equal(t, focusPassword, m.focus)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusEmail, m.focus)

	// Password is filled in but e-mail is empty.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.Form().Field(FieldEmail).Touched)
	assert.Empty(t, svc.calls)
}

func TestModel_SubmitForwards(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)

	m = typeText(t, m, "ab@cd.com")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "abc123")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, SubmitDoneMsg{}, msg)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, call{"ab@cd.com", "abc123", true}, svc.calls[0])
}

func TestModel_SwitchMode(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	assert.Contains(t, m.View(), SwitchToSignIn)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.False(t, m.Form().IsSignUp)
	assert.Contains(t, m.View(), SwitchToSignUp)

	// Enter on the switch button toggles back.
	m.setFocus(focusSwitch)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.Form().IsSignUp)
}

func TestModel_LoadingShowsSpinner(t *testing.T) {
	m := newTestModel(&fakeService{})

	m, cmd := update(t, m, StateMsg{State: auth.State{Loading: true}, Action: auth.StartAction{}})
	assert.NotNil(t, cmd)
	view := m.View()
	assert.NotContains(t, view, SubmitLabel)
	assert.Contains(t, view, "identity provider")

	// Keys other than quit are ignored while loading.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestModel_ErrorMessages(t *testing.T) {
	m := newTestModel(&fakeService{})

	m, _ = update(t, m, StateMsg{
		State:  auth.State{Error: identity.CodeInvalidPassword},
		Action: auth.FailAction{Code: identity.CodeInvalidPassword},
	})
	assert.Contains(t, m.View(), "This password is incorrect!")

	m, _ = update(t, m, StateMsg{
		State:  auth.State{Error: "WEAK_PASSWORD"},
		Action: auth.FailAction{Code: "WEAK_PASSWORD"},
	})
	view := m.View()
	for _, text := range Messages {
		assert.NotContains(t, view, text)
	}
	assert.Contains(t, view, SubmitLabel)
}

func TestModel_SignedInAndLogout(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc)
	m = typeText(t, m, "ab@cd.com")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "abc123")

	m, cmd := update(t, m, StateMsg{
		State:  auth.State{Token: "tok", UserID: "user-7", IsAdmin: true, ExpiresAt: time.Now().Add(time.Hour), RedirectPath: "/orders"},
		Action: auth.SuccessAction{Token: "tok", UserID: "user-7", IsAdmin: true},
	})
	assert.NotNil(t, cmd)
	view := m.View()
	assert.Contains(t, view, "user-7")
	assert.Contains(t, view, "administrator")
	assert.Contains(t, view, "Session expires in")
	assert.Contains(t, view, "/orders")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	require.NotNil(t, cmd)
	assert.IsType(t, LogoutDoneMsg{}, cmd())
	assert.Equal(t, 1, svc.logouts)

	m, _ = update(t, m, StateMsg{State: auth.InitialState(), Action: auth.LogoutAction{}})
	assert.Contains(t, m.View(), SubmitLabel)
	assert.Empty(t, m.Form().Field(FieldPassword).Value)
	assert.Equal(t, "ab@cd.com", m.Form().Field(FieldEmail).Value)
	assert.Equal(t, focusEmail, m.focus)
}

func TestModel_ErrorWindow(t *testing.T) {
	slot := identity.NewErrorSlot()
	m := New(&fakeService{}, auth.InitialState(), Options{
		Theme:       styles.NewTheme(styles.ModeDark),
		Slot:        slot,
		SkipRestore: true,
	})

	reqErr := errors.New("Request failed with status code 400")
	slot.Set(reqErr)
	m, _ = update(t, m, components.ErrorSlotMsg{Err: reqErr})
	assert.Contains(t, m.View(), "status code 400")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "status code 400")
	assert.NoError(t, slot.Err())
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(&fakeService{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_InitRestores(t *testing.T) {
	svc := &fakeService{}
	m := New(svc, auth.InitialState(), Options{Theme: styles.NewTheme(styles.ModeDark)})
	require.NotNil(t, m.Init())
	_, _ = update(t, m, RestoreDoneMsg{})
	assert.True(t, strings.Contains(m.View(), SubmitLabel))
}

func TestBridge_ForwardsInOrder(t *testing.T) {
	store := auth.NewStore(auth.InitialState())
	slot := identity.NewErrorSlot()

	var (
		mu   sync.Mutex
		msgs []tea.Msg
	)
	stop := Bridge(store, slot, func(msg tea.Msg) {
		mu.Lock()
		msgs = append(msgs, msg)
		mu.Unlock()
	})

	store.Dispatch(auth.StartAction{})
	slot.Set(errors.New("boom"))
	store.Dispatch(auth.FailAction{Code: "X"})
	stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, msgs, 3)
	assert.IsType(t, auth.StartAction{}, msgs[0].(StateMsg).Action)
	assert.EqualError(t, msgs[1].(components.ErrorSlotMsg).Err, "boom")
	assert.Equal(t, "X", msgs[2].(StateMsg).State.Error)

	// Nothing is forwarded after stop.
	store.Dispatch(auth.LogoutAction{})
	assert.Len(t, msgs, 3)
	stop()
}

func TestBridge_DispatchNeverWaitsOnSend(t *testing.T) {
	store := auth.NewStore(auth.InitialState())
	slot := identity.NewErrorSlot()

	release := make(chan struct{})
	var (
		mu   sync.Mutex
		msgs []tea.Msg
	)
	stop := Bridge(store, slot, func(msg tea.Msg) {
		<-release
		mu.Lock()
		msgs = append(msgs, msg)
		mu.Unlock()
	})

	// The program is stuck delivering, while its own goroutine keeps
	// dispatching and clearing the slot.
	const n = 200
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i := 0; i < n; i++ {
			store.Dispatch(auth.FailAction{Code: "X"})
		}
		slot.Set(errors.New("boom"))
		slot.Clear()
	}()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch blocked on a busy program")
	}

	close(release)
	stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, msgs, n+2)
	for i := 0; i < n; i++ {
		assert.IsType(t, StateMsg{}, msgs[i])
	}
	assert.EqualError(t, msgs[n].(components.ErrorSlotMsg).Err, "boom")
	assert.NoError(t, msgs[n+1].(components.ErrorSlotMsg).Err)
}
