// rigrun-auth - sign up and sign in from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rigrun-auth/internal/cli"
	"github.com/jeranaias/rigrun-auth/internal/config"
	"github.com/jeranaias/rigrun-auth/internal/logging"
	"github.com/jeranaias/rigrun-auth/internal/session"
	"github.com/jeranaias/rigrun-auth/internal/ui/authform"
	"github.com/jeranaias/rigrun-auth/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code.
func run(argv []string) int {
	cmd, args := cli.Parse(argv)
	streams := cli.StdStreams()

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion(streams.Out)
		return cli.ExitSuccess
	case cli.CmdHelp:
		if args.Unknown != "" {
			fmt.Fprintf(streams.Err, "unknown command: %s\n\n", args.Unknown)
			cli.PrintUsage(streams.Err)
			return cli.ExitUsageError
		}
		cli.PrintUsage(streams.Out)
		return cli.ExitSuccess
	}

	cfg, err := loadConfig(args, streams.Err)
	if err != nil {
		cli.DisplayError(streams.Err, cmd.String(), err, args.JSON)
		return cli.ExitConfigError
	}

	logger, logCloser, err := initLogging(cfg, cmd == cli.CmdTUI)
	if err != nil {
		cli.DisplayError(streams.Err, cmd.String(), err, args.JSON)
		return cli.ExitConfigError
	}
	defer logCloser.Close()

	if cmd == cli.CmdConfig {
		return exit(streams, cmd, args, cli.HandleConfig(cfg, streams, args))
	}

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		return exit(streams, cmd, args, err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn().Err(err).Msg("shutdown")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdLogin:
		err = cli.HandleLogin(ctx, app, streams, args, false)
	case cli.CmdSignup:
		err = cli.HandleLogin(ctx, app, streams, args, true)
	case cli.CmdLogout:
		err = cli.HandleLogout(ctx, app, streams, args)
	case cli.CmdStatus:
		err = cli.HandleStatus(ctx, app, streams, args)
	default:
		err = runTUI(ctx, app)
	}
	return exit(streams, cmd, args, err)
}

func exit(streams *cli.Streams, cmd cli.Command, args cli.Args, err error) int {
	if err != nil {
		cli.DisplayError(streams.Err, cmd.String(), err, args.JSON)
	}
	return cli.ExitCode(err)
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig(args cli.Args, warn io.Writer) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
		if cfg != nil && err != nil {
			// The file was unreadable; defaults are usable.
			fmt.Fprintf(warn, "Warning: %v (using defaults)\n", err)
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	switch {
	case args.Verbose:
		cfg.Logging.Level = "debug"
	case args.Quiet:
		cfg.Logging.Level = "error"
	}
	if args.Backend != "" {
		cfg.Session.Backend = args.Backend
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --backend: %w", err)
		}
	}

	return cfg, nil
}

// initLogging logs to stderr for commands and to the log file while the TUI
// owns the terminal. Without a log file the TUI runs silent.
func initLogging(cfg *config.Config, tui bool) (zerolog.Logger, io.Closer, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if tui {
		if cfg.Logging.File == "" {
			opts.Level = "disabled"
		}
		opts.File = cfg.Logging.File
	}
	return logging.Init(opts, os.Stderr)
}

// runTUI runs the auth screen until the user quits.
func runTUI(ctx context.Context, app *cli.App) error {
	cfg := app.Config
	logger := app.Logger.With().Str("component", "tui").Logger()

	model := authform.New(app.Service, app.Store.State(), authform.Options{
		Theme:   styles.NewTheme(cfg.UI.Theme),
		Logger:  logger,
		Slot:    app.Slot,
		Timeout: cfg.Identity.Timeout(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	stopBridge := authform.Bridge(app.Store, app.Slot, p.Send)
	defer stopBridge()

	// Another process signing in or out shows up here.
	if fs, ok := app.Repo.(*session.FileStore); ok && cfg.Session.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		err := fs.Watch(watchCtx, logger, func() {
			if err := app.Service.Restore(watchCtx); err != nil {
				logger.Warn().Err(err).Msg("restore after external session change")
			}
		})
		if err != nil {
			logger.Warn().Err(err).Msg("session file watch disabled")
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
