// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Provider error codes the UI knows how to describe.
const (
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeTooManyAttempts   = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeEmailNotFound     = "EMAIL_NOT_FOUND"
	CodeInvalidPassword   = "INVALID_PASSWORD"
	CodeUserDisabled      = "USER_DISABLED"
	CodeNetwork           = "NETWORK_ERROR"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
)

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("identity provider API key not configured")

	// ErrRateLimited is returned when submits exceed the local limit. It
	// carries the provider's own throttling code so it reads the same.
	ErrRateLimited = &ProviderError{
		Status:  http.StatusTooManyRequests,
		Code:    CodeTooManyAttempts,
		Message: "local submit limit reached",
	}
)

// ProviderError is a failure reported by, or on the way to, the provider.
type ProviderError struct {
	Status  int    // HTTP status, 0 when no response arrived
	Code    string // e.g. INVALID_PASSWORD
	Message string // detail after the code, if any
	Err     error  // underlying transport error, if any
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString("identity provider error")
	if e.Code != "" {
		b.WriteString(" [" + e.Code + "]")
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying transport error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the provider code from err, or "" if err carries none.
func CodeOf(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// apiErrorResponse is the provider's error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseProviderError decodes an error body. The provider's message is
// "CODE" or "CODE : human detail"; only the CODE part is significant.
func parseProviderError(status int, body []byte) *ProviderError {
	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return &ProviderError{
			Status:  status,
			Code:    CodeMalformedResponse,
			Message: http.StatusText(status),
		}
	}

	code, detail, _ := strings.Cut(envelope.Error.Message, " : ")
	return &ProviderError{
		Status:  status,
		Code:    strings.TrimSpace(code),
		Message: strings.TrimSpace(detail),
	}
}
