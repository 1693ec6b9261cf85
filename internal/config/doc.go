// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the rigrun-auth configuration.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - IdentityConfig: Identity provider endpoints, key and admin resolution
//   - SessionConfig: Session backend selection
//   - LoggingConfig: Log level, format and file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGRUN_AUTH_*), including those from .env files
//   - ~/.rigrun-auth/config.toml
//   - ~/.rigrun-auth/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := session.Open(cfg.Session.Options())
package config
