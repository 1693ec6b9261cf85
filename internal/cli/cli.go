// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdSignup:
		return "signup"
	case CmdLogout:
		return "logout"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Verbose    bool
	Quiet      bool
	ConfigPath string // --config, overrides the default location
	Backend    string // --backend, overrides session.backend

	// login / signup
	Email         string
	PasswordStdin bool

	// config
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Unknown holds the command name when it was not recognized.
	Unknown string

	// Raw args after the command name
	Raw []string
}

const usageText = `rigrun-auth - sign up and sign in from the terminal

Usage:
  rigrun-auth                       Start the TUI (default)
  rigrun-auth login [EMAIL]         Sign in with e-mail and password
  rigrun-auth signup [EMAIL]        Create an account
  rigrun-auth logout                Clear the stored session
  rigrun-auth status, s             Show the stored session
  rigrun-auth config [show|get|set|path|keys]
                                    Configuration
  rigrun-auth version               Show version information
  rigrun-auth help                  Show this help

Login / Signup:
  --email EMAIL                     E-mail address (or first argument)
  --password-stdin                  Read the password from stdin without a prompt

Config:
  rigrun-auth config show           Print the configuration (secrets redacted)
  rigrun-auth config get KEY        Print one value, e.g. session.backend
  rigrun-auth config set KEY VALUE  Change one value and save
  rigrun-auth config path           Print the config file location
  rigrun-auth config keys           List all keys

Global flags:
  --json                            Machine-readable output
  -v, --verbose                     Debug logging
  -q, --quiet                       Errors only
  --config PATH                     Use this config file
  --backend NAME                    Session backend: file, sqlite, redis, memory

Environment:
  RIGRUN_AUTH_API_KEY               Identity provider API key
  RIGRUN_AUTH_SESSION_BACKEND       Session backend
  RIGRUN_AUTH_SESSION_PATH          Session file or database path
  RIGRUN_AUTH_REDIS_URL             Redis URL for the redis backend
  RIGRUN_AUTH_JWKS_URL              Verify ID tokens against this key set
  RIGRUN_AUTH_LOG_LEVEL             trace, debug, info, warn, error, disabled
  RIGRUN_AUTH_LOG_FORMAT            console or json
  RIGRUN_AUTH_HOME                  Configuration directory (default ~/.rigrun-auth)
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "rigrun-auth %s\n", Version)
	fmt.Fprintf(w, "  Commit:  %s\n", GitCommit)
	fmt.Fprintf(w, "  Built:   %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login", "signin", "sign-in":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs

	case "signup", "sign-up", "register":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdSignup, parsedArgs

	case "logout", "signout", "sign-out":
		return CmdLogout, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--json":
			parsedArgs.JSON = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--config", "--backend":
			if i+1 < len(args) {
				i++
				setGlobalValue(&parsedArgs, strings.TrimPrefix(arg, "--"), args[i])
			}
		default:
			if name, value, ok := strings.Cut(arg, "="); ok && (name == "--config" || name == "--backend") {
				setGlobalValue(&parsedArgs, strings.TrimPrefix(name, "--"), value)
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

func setGlobalValue(args *Args, name, value string) {
	switch name {
	case "config":
		args.ConfigPath = value
	case "backend":
		args.Backend = value
	}
}

// parseLoginArgs parses login and signup arguments.
func parseLoginArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "password-stdin")
	args.Email = p.FlagOrDefault("email", p.Positional(0))
	args.PasswordStdin = p.BoolFlag("password-stdin")
}

// parseConfigArgs parses config command arguments.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Subcommand = strings.ToLower(p.Subcommand())
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = strings.Join(p.PositionalFrom(2), " ")
}
