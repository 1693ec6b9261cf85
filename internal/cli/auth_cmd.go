// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/rigrun-auth/internal/auth"
	"github.com/jeranaias/rigrun-auth/internal/config"
	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/ui/authform"
	"github.com/jeranaias/rigrun-auth/internal/validation"
)

// sessionInfo is the --json payload of login, signup and status.
type sessionInfo struct {
	Authenticated bool       `json:"authenticated"`
	UserID        string     `json:"user_id,omitempty"`
	IsAdmin       bool       `json:"is_admin"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	RemainingSecs int64      `json:"remaining_secs,omitempty"`
	RedirectPath  string     `json:"redirect_path,omitempty"`
	Backend       string     `json:"backend,omitempty"`
}

func infoFor(state auth.State, now time.Time) sessionInfo {
	info := sessionInfo{Authenticated: state.IsAuthenticated()}
	if !info.Authenticated {
		return info
	}
	expires := state.ExpiresAt
	info.UserID = state.UserID
	info.IsAdmin = state.IsAdmin
	info.ExpiresAt = &expires
	info.RedirectPath = state.RedirectPath
	if remaining := expires.Sub(now); remaining > 0 {
		info.RemainingSecs = int64(remaining / time.Second)
	}
	return info
}

// HandleLogin signs in, or signs up when signUp is set. The e-mail comes
// from the arguments or a prompt; the password always from stdin.
func HandleLogin(ctx context.Context, app *App, s *Streams, args Args, signUp bool) error {
	command := CmdLogin.String()
	if signUp {
		command = CmdSignup.String()
	}

	form := authform.NewForm()
	form.IsSignUp = signUp

	email := args.Email
	if email == "" && !args.PasswordStdin {
		var err error
		if email, err = s.Prompt("E-mail: "); err != nil && !errors.Is(err, errNoInput) {
			return &CommandError{Command: command, Err: err}
		}
	}
	form.Change(authform.FieldEmail, email)

	label := "Password: "
	if args.PasswordStdin {
		label = ""
	}
	password, err := s.ReadPassword(label)
	if err != nil && !errors.Is(err, errNoInput) {
		return &CommandError{Command: command, Err: err}
	}
	form.Change(authform.FieldPassword, password)

	sub, ok := form.Submit()
	if !ok {
		if form.Field(authform.FieldPassword).Value == "" {
			return &UsageError{Reason: "a password is required", Example: "rigrun-auth " + command + " you@example.com"}
		}
		return &UsageError{Reason: "an e-mail address is required", Example: "rigrun-auth " + command + " --email you@example.com"}
	}

	// Invalid fields are only a hint; the provider decides.
	if !args.JSON {
		for _, f := range form.Fields {
			if f.ShowInvalid() {
				fmt.Fprintf(s.Err, "%s %s %v\n", WarningStyle.Render("[WARN]"), f.Name, validation.Validate(f.Rules, f.Value))
			}
		}
	}

	app.Logger.Debug().Str("command", command).Msg("submitting credentials")
	if err := app.Service.Authenticate(ctx, sub.Email, sub.Password, sub.SignUp); err != nil {
		return &CommandError{Command: command, Reason: describeFailure(err), Err: err}
	}

	state := app.Service.Store().State()
	if args.JSON {
		return NewJSONResponse(command, infoFor(state, time.Now())).Write(s.Out)
	}
	verb := "Signed in"
	if signUp {
		verb = "Account created, signed in"
	}
	fmt.Fprintf(s.Out, "%s %s as %s\n", SuccessStyle.Render("[OK]"), verb, state.UserID)
	printSession(s, state, time.Now())
	return nil
}

// HandleLogout clears the stored session.
func HandleLogout(ctx context.Context, app *App, s *Streams, args Args) error {
	if err := app.Service.Logout(ctx); err != nil {
		return &CommandError{Command: CmdLogout.String(), Err: err}
	}
	if args.JSON {
		return NewJSONResponse(CmdLogout.String(), infoFor(app.Service.Store().State(), time.Now())).Write(s.Out)
	}
	fmt.Fprintf(s.Out, "%s Signed out\n", SuccessStyle.Render("[OK]"))
	return nil
}

func printSession(s *Streams, state auth.State, now time.Time) {
	role := "user"
	if state.IsAdmin {
		role = "administrator"
	}
	printField(s.Out, "User", state.UserID)
	printField(s.Out, "Role", role)
	printField(s.Out, "Expires", fmt.Sprintf("%s (in %s)",
		state.ExpiresAt.Local().Format(time.RFC1123),
		state.ExpiresAt.Sub(now).Round(time.Second)))
	printField(s.Out, "Continue to", state.RedirectPath)
}

// describeFailure returns the message the form would show for err, or a
// generic one for codes it does not describe.
func describeFailure(err error) string {
	if msg := authform.MessageFor(identity.CodeOf(err)); msg != "" {
		return msg
	}
	switch {
	case errors.Is(err, identity.ErrNotConfigured):
		return "no API key configured; set " + config.EnvAPIKey
	case identity.CodeOf(err) == identity.CodeNetwork:
		return "the identity provider could not be reached"
	}
	return ""
}

// errorCode is the code reported in JSON error responses.
func errorCode(err error) string {
	if errors.Is(err, identity.ErrNotConfigured) {
		return auth.CodeNotConfigured
	}
	return identity.CodeOf(err)
}
