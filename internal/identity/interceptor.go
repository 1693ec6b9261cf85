// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// ERROR SLOT
// =============================================================================

// ErrorSlot holds the most recent request failure. Listeners are told about
// every change, including clears (with a nil error), in subscription order.
type ErrorSlot struct {
	mu        sync.Mutex
	err       error
	nextID    int
	listeners map[int]func(error)
}

// NewErrorSlot creates an empty slot.
func NewErrorSlot() *ErrorSlot {
	return &ErrorSlot{listeners: make(map[int]func(error))}
}

// Err returns the current failure, or nil.
func (s *ErrorSlot) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Set records err and notifies listeners.
func (s *ErrorSlot) Set(err error) {
	s.mu.Lock()
	s.err = err
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(err)
	}
}

// Clear empties the slot. Listeners are only told if it held something.
func (s *ErrorSlot) Clear() {
	s.mu.Lock()
	if s.err == nil {
		s.mu.Unlock()
		return
	}
	s.err = nil
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *ErrorSlot) Subscribe(fn func(error)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// snapshot returns the listeners in subscription order.
func (s *ErrorSlot) snapshot() []func(error) {
	out := make([]func(error), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// =============================================================================
// REQUEST ERROR
// =============================================================================

// RequestError describes a request that failed in transit or came back with
// an error status. The URL query is never kept since it carries the API key.
type RequestError struct {
	RequestID string
	Method    string
	Host      string
	Path      string
	Status    int
	Err       error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Network Error: %v", e.Err)
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// Unwrap returns the transport error, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// =============================================================================
// INTERCEPTOR
// =============================================================================

// Interceptor is an http.RoundTripper that clears slot when a request starts
// and records a RequestError when it fails.
type Interceptor struct {
	next   http.RoundTripper
	slot   *ErrorSlot
	logger zerolog.Logger
}

// NewInterceptor wraps next. A nil next uses http.DefaultTransport.
func NewInterceptor(next http.RoundTripper, slot *ErrorSlot, logger zerolog.Logger) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Interceptor{next: next, slot: slot, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	i.slot.Clear()

	requestID := uuid.NewString()
	start := time.Now()
	log := i.logger.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Logger()

	resp, err := i.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn().Err(err).Dur("elapsed", elapsed).Msg("request failed")
		i.slot.Set(&RequestError{
			RequestID: requestID,
			Method:    req.Method,
			Host:      req.URL.Host,
			Path:      req.URL.Path,
			Err:       err,
		})
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("request rejected")
		i.slot.Set(&RequestError{
			RequestID: requestID,
			Method:    req.Method,
			Host:      req.URL.Host,
			Path:      req.URL.Path,
			Status:    resp.StatusCode,
		})
		return resp, nil
	}

	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("request completed")
	return resp, nil
}
