// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default endpoints and limits.
const (
	DefaultSignUpURL = "https://identitytoolkit.googleapis.com/v1/accounts:signUp"
	DefaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

	// DefaultTimeout is the default timeout for provider requests.
	DefaultTimeout = 15 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 1 << 20
)

// Credentials is what the user typed into the form.
type Credentials struct {
	Email    string
	Password string
}

// authRequest is the body both endpoints accept.
type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// Response is a successful sign-up or sign-in.
type Response struct {
	IDToken      string  `json:"idToken"`
	LocalID      string  `json:"localId"`
	Email        string  `json:"email"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    Seconds `json:"expiresIn"`
}

// maxLifetimeSeconds is the longest lifetime a time.Duration can hold.
const maxLifetimeSeconds = float64(math.MaxInt64 / int64(time.Second))

// Seconds decodes a lifetime sent either as a JSON number or as a decimal
// string, which is how the provider actually sends it.
type Seconds time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid expiresIn %q: %w", raw, err)
	}
	// Also rejects NaN and infinities.
	if !(n >= 0 && n <= maxLifetimeSeconds) {
		return fmt.Errorf("expiresIn %q out of range", raw)
	}
	*s = Seconds(time.Duration(n * float64(time.Second)))
	return nil
}

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// Authenticator is the subset of Client the auth flow depends on.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials, signUp bool) (*Response, error)
}

// Client calls the identity provider.
type Client struct {
	apiKey     string
	signUpURL  string
	signInURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a client whose transport reports into slot.
// A nil slot gets a private one.
func NewClient(apiKey string, slot *ErrorSlot, logger zerolog.Logger) *Client {
	if slot == nil {
		slot = NewErrorSlot()
	}
	return &Client{
		apiKey:    strings.TrimSpace(apiKey),
		signUpURL: DefaultSignUpURL,
		signInURL: DefaultSignInURL,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: NewInterceptor(nil, slot, logger),
		},
		logger: logger,
	}
}

// WithEndpoints overrides the sign-up and sign-in URLs. Empty values keep
// the current ones.
func (c *Client) WithEndpoints(signUpURL, signInURL string) *Client {
	if signUpURL != "" {
		c.signUpURL = signUpURL
	}
	if signInURL != "" {
		c.signInURL = signInURL
	}
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithRateLimit allows perMinute submits per minute with a burst of the
// same size. Zero disables the limit.
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return c
}

// IsConfigured returns true if an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Authenticate creates an account when signUp is true, otherwise verifies
// the password of an existing one. Failures are *ProviderError values.
func (c *Client) Authenticate(ctx context.Context, creds Credentials, signUp bool) (*Response, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return nil, ErrRateLimited
	}

	endpoint := c.signInURL
	if signUp {
		endpoint = c.signUpURL
	}
	target, err := withKey(endpoint, c.apiKey)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(authRequest{
		Email:             creds.Email,
		Password:          creds.Password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Code: CodeNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, &ProviderError{Status: resp.StatusCode, Code: CodeNetwork, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		perr := parseProviderError(resp.StatusCode, data)
		c.logger.Info().Str("code", perr.Code).Bool("sign_up", signUp).Msg("provider rejected credentials")
		return nil, perr
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ProviderError{Status: resp.StatusCode, Code: CodeMalformedResponse, Err: err}
	}
	if out.IDToken == "" || out.LocalID == "" {
		return nil, &ProviderError{
			Status: resp.StatusCode,
			Code:   CodeMalformedResponse,
			Err:    errors.New("response is missing idToken or localId"),
		}
	}
	return &out, nil
}

func withKey(endpoint, key string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
