// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// DefaultAdminClaim is the boolean ID-token claim that marks an admin.
const DefaultAdminClaim = "admin"

const adminRole = "admin"

// ErrNoToken is returned when there is no ID token to inspect.
var ErrNoToken = errors.New("no id token")

// RoleResolver decides whether a signed-in user is an administrator.
//
// The ID token's claims are the source of truth. A configured list of user
// ids is also honoured so deployments without a role claim keep working.
type RoleResolver struct {
	claim    string
	adminIDs map[string]struct{}
	keyFunc  jwt.Keyfunc
}

// NewRoleResolver creates a resolver reading claim (DefaultAdminClaim when
// empty) and treating every id in adminIDs as an admin.
func NewRoleResolver(claim string, adminIDs []string) *RoleResolver {
	if claim == "" {
		claim = DefaultAdminClaim
	}
	r := &RoleResolver{claim: claim}
	for _, id := range adminIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if r.adminIDs == nil {
			r.adminIDs = make(map[string]struct{})
		}
		r.adminIDs[id] = struct{}{}
	}
	return r
}

// WithKeyfunc makes the resolver verify token signatures with kf before
// trusting any claim.
func (r *RoleResolver) WithKeyfunc(kf jwt.Keyfunc) *RoleResolver {
	r.keyFunc = kf
	return r
}

// IsAdmin reports whether userID holding idToken is an administrator.
// The error explains why the claims could not be read; the id list is still
// consulted in that case.
func (r *RoleResolver) IsAdmin(idToken, userID string) (bool, error) {
	if _, ok := r.adminIDs[userID]; ok && userID != "" {
		return true, nil
	}
	claims, err := r.claims(idToken)
	if err != nil {
		return false, err
	}
	return r.claimsSayAdmin(claims), nil
}

func (r *RoleResolver) claims(idToken string) (jwt.MapClaims, error) {
	if idToken == "" {
		return nil, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if r.keyFunc == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
			return nil, fmt.Errorf("parse id token: %w", err)
		}
		return claims, nil
	}
	// Expiry is enforced by the session, not here.
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(idToken, claims, r.keyFunc); err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return claims, nil
}

func (r *RoleResolver) claimsSayAdmin(claims jwt.MapClaims) bool {
	switch v := claims[r.claim].(type) {
	case bool:
		if v {
			return true
		}
	case string:
		if strings.EqualFold(v, "true") {
			return true
		}
	}
	if role, ok := claims["role"].(string); ok && strings.EqualFold(role, adminRole) {
		return true
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, role := range roles {
			if s, ok := role.(string); ok && strings.EqualFold(s, adminRole) {
				return true
			}
		}
	}
	return false
}

// JWKS is a background-refreshed key set used to verify ID tokens.
type JWKS struct {
	jwks *keyfunc.JWKS
}

// NewJWKS fetches the key set at url and keeps it fresh until Close.
func NewJWKS(url string, logger zerolog.Logger) (*JWKS, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Warn().Err(err).Str("url", url).Msg("JWKS refresh failed")
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS from %s: %w", url, err)
	}
	return &JWKS{jwks: jwks}, nil
}

// Keyfunc returns the jwt.Keyfunc backed by the key set.
func (j *JWKS) Keyfunc() jwt.Keyfunc {
	return j.jwks.Keyfunc
}

// Close stops the background refresh.
func (j *JWKS) Close() {
	j.jwks.EndBackground()
}
