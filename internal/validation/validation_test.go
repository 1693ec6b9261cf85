// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		rules Rules
		value string
		want  bool
	}{
		{"empty rules empty value", Rules{}, "", true},
		{"empty rules any value", Rules{}, "anything at all", true},
		{"required empty", Rules{Required: true}, "", false},
		{"required whitespace", Rules{Required: true}, "   ", false},
		{"required present", Rules{Required: true}, "x", true},
		{"min length short", Rules{MinLength: 5}, "abcd", false},
		{"min length exact", Rules{MinLength: 5}, "abcde", true},
		{"min length counts runes", Rules{MinLength: 3}, "äöü", true},
		{"min length empty", Rules{MinLength: 1}, "", false},
		{"email ok", Rules{Email: true, MinLength: 5}, "ab@cd.com", true},
		{"email missing at", Rules{Email: true}, "abcd.com", false},
		{"email missing tld", Rules{Email: true}, "ab@cd", false},
		{"email empty", Rules{Email: true}, "", false},
		{"password ok", Rules{Password: true}, "secret1", true},
		{"password no digit", Rules{Password: true}, "secret", false},
		{"password no letter", Rules{Password: true}, "123456", false},
		{"password with space", Rules{Password: true}, "sec ret1", false},
		{"all email rules", Rules{Required: true, MinLength: 5, Email: true}, "a@b.io", true},
		{"all email rules too short", Rules{Required: true, MinLength: 7, Email: true}, "a@b.io", false},
		{"all password rules", Rules{Required: true, MinLength: 6, Password: true}, "abc123", true},
		{"all password rules short", Rules{Required: true, MinLength: 6, Password: true}, "ab12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.rules, tt.value))
		})
	}
}

// Each rule must agree with its standalone verdict: the combined result is the
// conjunction of the individual ones.
func TestValid_IsConjunctionOfRules(t *testing.T) {
	values := []string{"", "a", "ab@cd.com", "abc123", "with space 1", "user@example.org"}
	singles := []Rules{
		{Required: true},
		{MinLength: 5},
		{Email: true},
		{Password: true},
	}

	for _, v := range values {
		for mask := 0; mask < 16; mask++ {
			var combined Rules
			want := true
			for i, r := range singles {
				if mask&(1<<i) == 0 {
					continue
				}
				combined.Required = combined.Required || r.Required
				if r.MinLength > 0 {
					combined.MinLength = r.MinLength
				}
				combined.Email = combined.Email || r.Email
				combined.Password = combined.Password || r.Password
				want = want && Valid(r, v)
			}
			assert.Equal(t, want, Valid(combined, v), "value %q mask %04b", v, mask)
		}
	}
}

func TestValidate_ReportsFirstFailure(t *testing.T) {
	err := Validate(Rules{Required: true, MinLength: 5}, "")
	require.ErrorIs(t, err, ErrRequired)

	err = Validate(Rules{Required: true, MinLength: 5, Email: true}, "ab@c")
	require.ErrorIs(t, err, ErrTooShort)

	err = Validate(Rules{Required: true, MinLength: 5, Email: true}, "abcdef")
	require.ErrorIs(t, err, ErrEmail)

	require.NoError(t, Validate(Rules{}, ""))
}

func TestValidate_EmptyValueFailsEachRule(t *testing.T) {
	tests := []struct {
		rules Rules
		want  error
	}{
		{Rules{Required: true}, ErrRequired},
		{Rules{MinLength: 1}, ErrTooShort},
		{Rules{Email: true}, ErrEmail},
		{Rules{Password: true}, ErrPassword},
		{Rules{MinLength: 5, Email: true}, ErrTooShort},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, Validate(tt.rules, ""), tt.want, "rules %+v", tt.rules)
	}
}

func TestValidate_EmailShape(t *testing.T) {
	for _, v := range []string{"ab@cd.com", "first.last@sub.example.org", "x+tag@mail.io"} {
		assert.NoError(t, Validate(Rules{Email: true}, v), v)
	}
	for _, v := range []string{"ab@cd", "@cd.com", "ab@", "ab cd@ef.com", "ab@@cd.com"} {
		assert.ErrorIs(t, Validate(Rules{Email: true}, v), ErrEmail, v)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ab@cd.com", NormalizeEmail("  ab@cd.com\t"))
	// Fullwidth commercial at folds to '@' under NFKC.
	assert.Equal(t, "ab@cd.com", NormalizeEmail("ab＠cd.com"))
}
