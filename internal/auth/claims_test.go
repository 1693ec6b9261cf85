// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return tok
}

func TestRoleResolver_Claims(t *testing.T) {
	tests := []struct {
		name   string
		claim  string
		claims jwt.MapClaims
		want   bool
	}{
		{"admin bool", "", jwt.MapClaims{"admin": true}, true},
		{"admin false", "", jwt.MapClaims{"admin": false}, false},
		{"admin string", "", jwt.MapClaims{"admin": "true"}, true},
		{"role", "", jwt.MapClaims{"role": "admin"}, true},
		{"roles", "", jwt.MapClaims{"roles": []interface{}{"editor", "admin"}}, true},
		{"other roles", "", jwt.MapClaims{"roles": []interface{}{"editor"}}, false},
		{"custom claim", "is_staff", jwt.MapClaims{"is_staff": true}, true},
		{"custom claim ignores default", "is_staff", jwt.MapClaims{"admin": true}, false},
		{"none", "", jwt.MapClaims{"sub": "u"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoleResolver(tt.claim, nil)
			got, err := r.IsAdmin(signedToken(t, tt.claims), "u")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleResolver_AdminIDs(t *testing.T) {
	r := NewRoleResolver("", []string{" root ", ""})

	got, err := r.IsAdmin("not-a-jwt", "root")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = r.IsAdmin("not-a-jwt", "someone")
	assert.Error(t, err)
	assert.False(t, got)

	got, _ = r.IsAdmin("", "")
	assert.False(t, got)
}

func TestRoleResolver_NoToken(t *testing.T) {
	_, err := NewRoleResolver("", nil).IsAdmin("", "u")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRoleResolver_VerifiesWithKeyfunc(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"admin": true})

	good := NewRoleResolver("", nil).WithKeyfunc(func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	got, err := good.IsAdmin(tok, "u")
	require.NoError(t, err)
	assert.True(t, got)

	bad := NewRoleResolver("", nil).WithKeyfunc(func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	got, err = bad.IsAdmin(tok, "u")
	assert.Error(t, err)
	assert.False(t, got)
}
