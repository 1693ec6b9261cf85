// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import (
	"github.com/jeranaias/rigrun-auth/internal/validation"
)

// Field names, in display order.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Button labels.
const (
	SubmitLabel        = "SUBMIT"
	SwitchToSignIn     = "SWITCH TO SIGN IN"
	SwitchToSignUp     = "SWITCH TO SIGN UP"
	signUpTitle        = "Create an account"
	signInTitle        = "Sign in"
	defaultElementType = "input"
)

// FieldConfig describes how a field is rendered.
type FieldConfig struct {
	Type        string // "email" or "password"
	Placeholder string
}

// Field is one form control and its validation state.
type Field struct {
	Name        string
	ElementType string
	Config      FieldConfig
	Value       string
	Rules       validation.Rules
	Valid       bool
	Touched     bool
}

// ShowInvalid reports whether the field should be highlighted as invalid:
// it has rules, it was touched and its value fails them.
func (f Field) ShowInvalid() bool {
	return !f.Valid && f.Touched && !f.Rules.Empty()
}

// DefaultFields returns the e-mail and password controls.
func DefaultFields() []Field {
	return []Field{
		{
			Name:        FieldEmail,
			ElementType: defaultElementType,
			Config:      FieldConfig{Type: "email", Placeholder: "Mail address"},
			Rules:       validation.Rules{Required: true, MinLength: 5, Email: true},
		},
		{
			Name:        FieldPassword,
			ElementType: defaultElementType,
			Config:      FieldConfig{Type: "password", Placeholder: "Password"},
			Rules:       validation.Rules{Required: true, MinLength: 6, Password: true},
		},
	}
}

// Submission is what the form hands to the auth flow.
type Submission struct {
	Email    string
	Password string
	SignUp   bool
}

// Form holds the field descriptors and the auth mode. Sign-up is the
// initial mode.
type Form struct {
	Fields   []Field
	IsSignUp bool
}

// NewForm creates a form with DefaultFields in sign-up mode.
func NewForm() *Form {
	return &Form{Fields: DefaultFields(), IsSignUp: true}
}

// Field returns the named field, or nil.
func (f *Form) Field(name string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}

// Change stores value in the named field, recomputes its validity and marks
// it touched.
func (f *Form) Change(name, value string) {
	field := f.Field(name)
	if field == nil {
		return
	}
	field.Value = value
	field.Valid = validation.Valid(field.Rules, value)
	field.Touched = true
}

// Submit returns the submission when both fields are filled in. Otherwise
// it marks the first empty field touched, password first, and returns false.
// Validity is not required; the provider has the final word.
func (f *Form) Submit() (Submission, bool) {
	email, password := f.Field(FieldEmail), f.Field(FieldPassword)
	switch {
	case password.Value == "":
		password.Touched = true
		return Submission{}, false
	case email.Value == "":
		email.Touched = true
		return Submission{}, false
	}
	return Submission{
		Email:    email.Value,
		Password: password.Value,
		SignUp:   f.IsSignUp,
	}, true
}

// ToggleMode switches between sign-up and sign-in.
func (f *Form) ToggleMode() {
	f.IsSignUp = !f.IsSignUp
}

// SwitchLabel is the label of the mode switch button.
func (f *Form) SwitchLabel() string {
	if f.IsSignUp {
		return SwitchToSignIn
	}
	return SwitchToSignUp
}

// Title names the current mode.
func (f *Form) Title() string {
	if f.IsSignUp {
		return signUpTitle
	}
	return signInTitle
}
