// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigrun-auth/internal/config"
)

// HandleConfig runs "config show|get|set|path|keys". Set edits the file
// itself, not the environment-merged cfg, and validates before writing.
func HandleConfig(cfg *config.Config, s *Streams, args Args) error {
	command := CmdConfig.String()

	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			fmt.Fprintln(s.Out, cfg.String())
			return nil
		}
		fmt.Fprintln(s.Out, TitleStyle.Render("rigrun-auth configuration"))
		for _, key := range config.GetAllKeys() {
			val, err := displayValue(cfg, key)
			if err != nil {
				return &CommandError{Command: command, Err: err}
			}
			printField(s.Out, key, val)
		}
		return nil

	case "get":
		if args.ConfigKey == "" {
			return &UsageError{Reason: "config get needs a key", Example: "rigrun-auth config get session.backend"}
		}
		val, err := displayValue(cfg, args.ConfigKey)
		if err != nil {
			return &UsageError{Reason: err.Error()}
		}
		if args.JSON {
			return NewJSONResponse(command, map[string]string{args.ConfigKey: val}).Write(s.Out)
		}
		fmt.Fprintln(s.Out, val)
		return nil

	case "set":
		if args.ConfigKey == "" {
			return &UsageError{Reason: "config set needs a key and a value", Example: "rigrun-auth config set session.backend sqlite"}
		}
		file, path, err := config.LoadForEdit(args.ConfigPath)
		if err != nil {
			return &CommandError{Command: command, Err: err}
		}
		if err := setValue(file, args.ConfigKey, args.ConfigVal); err != nil {
			return &UsageError{Reason: err.Error()}
		}
		if err := file.Validate(); err != nil {
			return &CommandError{Command: command, Reason: "refusing to save", Err: err}
		}
		if err := config.SaveTo(file, path); err != nil {
			return &CommandError{Command: command, Err: err}
		}
		// Keep the running config in step.
		_ = setValue(cfg, args.ConfigKey, args.ConfigVal)
		if args.JSON {
			return NewJSONResponse(command, map[string]string{args.ConfigKey: args.ConfigVal}).Write(s.Out)
		}
		fmt.Fprintf(s.Out, "%s %s updated\n", SuccessStyle.Render("[OK]"), args.ConfigKey)
		return nil

	case "path":
		path := args.ConfigPath
		if path == "" {
			p, err := config.ConfigPathTOML()
			if err != nil {
				return &CommandError{Command: command, Err: err}
			}
			path = p
		}
		fmt.Fprintln(s.Out, path)
		return nil

	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Fprintln(s.Out, key)
		}
		return nil

	default:
		return &UsageError{Reason: "unknown config subcommand: " + args.Subcommand, Example: "rigrun-auth config show"}
	}
}

// displayValue renders a config value, hiding the API key.
func displayValue(cfg *config.Config, key string) (string, error) {
	val, err := cfg.Get(key)
	if err != nil {
		return "", err
	}
	switch v := val.(type) {
	case string:
		if strings.EqualFold(key, "identity.api_key") && v != "" {
			return "[REDACTED]", nil
		}
		return v, nil
	case []string:
		return strings.Join(v, ","), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// setValue assigns raw to key, accepting yes/no/on/off for booleans.
func setValue(cfg *config.Config, key, raw string) error {
	current, err := cfg.Get(key)
	if err != nil {
		return err
	}
	if _, isBool := current.(bool); isBool {
		b, err := ParseBoolString(raw)
		if err != nil {
			return err
		}
		return cfg.Set(key, b)
	}
	return cfg.Set(key, raw)
}
