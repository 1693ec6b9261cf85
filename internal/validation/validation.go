// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validation checks form field values against declared rule sets.
//
// Every rule is evaluated on the raw value. Unlike the stock ozzo rules, an
// empty string is not skipped: it fails MinLength, Email and Password.
// Length and e-mail shape use ozzo's RuneLength and is.Email.
package validation

import (
	"errors"
	"strings"
	"unicode"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Rules declares which checks apply to a field.
type Rules struct {
	Required  bool `toml:"required" json:"required"`
	MinLength int  `toml:"min_length" json:"min_length"`
	Email     bool `toml:"email" json:"email"`
	Password  bool `toml:"password" json:"password"`
}

// Empty reports whether no rule is declared.
func (r Rules) Empty() bool {
	return !r.Required && r.MinLength <= 0 && !r.Email && !r.Password
}

var (
	ErrRequired = errors.New("is required")
	ErrTooShort = errors.New("is too short")
	ErrEmail    = errors.New("must be a valid e-mail address")
	ErrPassword = errors.New("must contain a letter and a digit and no spaces")
)

var errNotString = errors.New("must be a string")

// ozzo reports failures as fresh errors; map them back to the sentinels.
var sentinels = map[string]error{
	ErrRequired.Error(): ErrRequired,
	ErrTooShort.Error(): ErrTooShort,
	ErrEmail.Error():    ErrEmail,
	ErrPassword.Error(): ErrPassword,
}

// Valid reports whether value passes every rule in rules.
// An empty rule set is vacuously valid.
func Valid(rules Rules, value string) bool {
	return Validate(rules, value) == nil
}

// Validate returns the first failing rule as an error, or nil. Rules are
// checked in the order required, length, e-mail, password.
func Validate(rules Rules, value string) error {
	if rules.Empty() {
		return nil
	}
	if value == "" {
		// ozzo treats empty input as valid for Length and is.Email.
		return emptyFailure(rules)
	}
	err := ozzo.Validate(value, rules.build()...)
	if err == nil {
		return nil
	}
	if s, ok := sentinels[err.Error()]; ok {
		return s
	}
	return err
}

func emptyFailure(r Rules) error {
	switch {
	case r.Required:
		return ErrRequired
	case r.MinLength > 0:
		return ErrTooShort
	case r.Email:
		return ErrEmail
	default:
		return ErrPassword
	}
}

func (r Rules) build() []ozzo.Rule {
	var out []ozzo.Rule
	if r.Required {
		out = append(out, ozzo.By(required))
	}
	if r.MinLength > 0 {
		out = append(out, ozzo.RuneLength(r.MinLength, 0).Error(ErrTooShort.Error()))
	}
	if r.Email {
		out = append(out, is.Email.Error(ErrEmail.Error()))
	}
	if r.Password {
		out = append(out, ozzo.By(passwordShape))
	}
	return out
}

func asString(value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", errNotString
	}
	return s, nil
}

// required rejects whitespace-only values, which ozzo.Required accepts.
func required(value interface{}) error {
	s, err := asString(value)
	if err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		return ErrRequired
	}
	return nil
}

func passwordShape(value interface{}) error {
	s, err := asString(value)
	if err != nil {
		return err
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return ErrPassword
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return ErrPassword
	}
	return nil
}
