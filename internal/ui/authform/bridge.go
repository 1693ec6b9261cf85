// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-auth/internal/auth"
	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/ui/components"
)

// Bridge forwards store and error slot changes to send, typically
// tea.Program.Send. Listeners only append to an unbounded queue, so a
// dispatch never waits on the program, even when the program itself is the
// dispatcher. A single goroutine delivers messages in the order they
// happened. The returned stop function unsubscribes and waits for the queue
// to drain.
func Bridge(store *auth.Store, slot *identity.ErrorSlot, send func(tea.Msg)) (stop func()) {
	var (
		mu      sync.Mutex
		pending []tea.Msg
		closed  bool
	)
	wake := make(chan struct{}, 1)
	done := make(chan struct{})

	signal := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	enqueue := func(msg tea.Msg) {
		mu.Lock()
		if closed {
			mu.Unlock()
			return
		}
		pending = append(pending, msg)
		mu.Unlock()
		signal()
	}

	go func() {
		defer close(done)
		for {
			mu.Lock()
			batch := pending
			pending = nil
			finished := closed
			mu.Unlock()

			for _, msg := range batch {
				send(msg)
			}
			switch {
			case finished:
				return
			case len(batch) == 0:
				<-wake
			}
		}
	}()

	unsubStore := store.Subscribe(func(s auth.State, a auth.Action) {
		enqueue(StateMsg{State: s, Action: a})
	})
	unsubSlot := func() {}
	if slot != nil {
		unsubSlot = slot.Subscribe(func(err error) {
			enqueue(components.ErrorSlotMsg{Err: err})
		})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubStore()
			unsubSlot()
			mu.Lock()
			closed = true
			mu.Unlock()
			signal()
			<-done
		})
	}
}
