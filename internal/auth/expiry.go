// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"sync"
	"time"
)

// Scheduler holds at most one pending expiry callback.
type Scheduler struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	deadline   time.Time
	now        func() time.Time
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// Schedule arms fn to run after d, replacing any pending callback.
// A non-positive d runs fn on its own goroutine right away.
func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.generation++
	gen := s.generation
	if d < 0 {
		d = 0
	}
	s.deadline = s.now().Add(d)
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		if gen != s.generation {
			// Superseded or cancelled while already firing.
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.deadline = time.Time{}
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.generation++
}

// Active reports whether a callback is pending.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Deadline returns when the pending callback fires; zero when idle.
func (s *Scheduler) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.deadline = time.Time{}
}
