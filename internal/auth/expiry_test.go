// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Fires(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32
	s.Schedule(10*time.Millisecond, func() { fired.Add(1) })
	assert.True(t, s.Active())

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, s.Active())
	assert.True(t, s.Deadline().IsZero())
}

func TestScheduler_SupersedesPriorTimer(t *testing.T) {
	s := NewScheduler()
	var first, second atomic.Int32
	s.Schedule(20*time.Millisecond, func() { first.Add(1) })
	s.Schedule(40*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32
	s.Schedule(10*time.Millisecond, func() { fired.Add(1) })
	s.Cancel()
	assert.False(t, s.Active())

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestScheduler_Deadline(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewScheduler()
	s.now = func() time.Time { return now }
	t.Cleanup(s.Cancel)

	s.Schedule(time.Hour, func() {})
	assert.Equal(t, now.Add(time.Hour), s.Deadline())
}

func TestScheduler_NonPositiveRunsNow(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32
	s.Schedule(-time.Second, func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}
