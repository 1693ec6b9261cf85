// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"
)

// HandleStatus restores the stored session and describes it. An expired
// session is cleared on the way, as it would be at TUI startup.
func HandleStatus(ctx context.Context, app *App, s *Streams, args Args) error {
	if err := app.Service.Restore(ctx); err != nil {
		return &CommandError{Command: CmdStatus.String(), Reason: "could not restore session", Err: err}
	}
	// Status only looks; the process is about to exit.
	app.Service.Scheduler().Cancel()

	now := time.Now()
	state := app.Service.Store().State()
	if args.JSON {
		info := infoFor(state, now)
		info.Backend = app.Config.Session.Backend
		return NewJSONResponse(CmdStatus.String(), info).Write(s.Out)
	}

	fmt.Fprintln(s.Out, TitleStyle.Render("rigrun-auth status"))
	printField(s.Out, "Backend", app.Config.Session.Backend)
	if !state.IsAuthenticated() {
		printField(s.Out, "Session", DimStyle.Render("not signed in"))
		return nil
	}
	printField(s.Out, "Session", SuccessStyle.Render("signed in"))
	printSession(s, state, now)
	return nil
}
