// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jeranaias/rigrun-auth/internal/auth"
	"github.com/jeranaias/rigrun-auth/internal/config"
	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/session"
)

// App is the wired set of components every command works with.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Slot    *identity.ErrorSlot
	Repo    session.Repository
	Store   *auth.Store
	Service *auth.Service

	jwks *auth.JWKS
}

// NewApp opens the session repository and builds the provider client and
// auth service described by cfg.
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	repo, err := session.Open(cfg.Session.Options())
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	slot := identity.NewErrorSlot()
	client := identity.NewClient(cfg.Identity.APIKey, slot, logger.With().Str("component", "identity").Logger()).
		WithEndpoints(cfg.Identity.SignUpURL, cfg.Identity.SignInURL).
		WithTimeout(cfg.Identity.Timeout()).
		WithRateLimit(cfg.Identity.SubmitRatePerMinute)

	roles := auth.NewRoleResolver(cfg.Identity.AdminClaim, cfg.Identity.AdminUserIDs)
	var jwks *auth.JWKS
	if cfg.Identity.JWKSURL != "" {
		jwks, err = auth.NewJWKS(cfg.Identity.JWKSURL, logger)
		if err != nil {
			repo.Close()
			return nil, err
		}
		roles = roles.WithKeyfunc(jwks.Keyfunc())
	}

	app := NewAppWith(cfg, logger, repo, client, slot, roles)
	app.jwks = jwks
	if !client.IsConfigured() {
		logger.Warn().Msg("no identity provider API key; set " + config.EnvAPIKey)
	}
	return app, nil
}

// NewAppWith wires an App around an existing repository and provider.
// A nil roles resolver reads the default admin claim.
func NewAppWith(cfg *config.Config, logger zerolog.Logger, repo session.Repository, provider identity.Authenticator, slot *identity.ErrorSlot, roles *auth.RoleResolver) *App {
	if slot == nil {
		slot = identity.NewErrorSlot()
	}
	if roles == nil {
		roles = auth.NewRoleResolver(cfg.Identity.AdminClaim, cfg.Identity.AdminUserIDs)
	}
	store := auth.NewStore(auth.InitialState())
	store.Dispatch(auth.SetRedirectPathAction{Path: cfg.UI.RedirectPath})
	svc := auth.NewService(store, repo, provider,
		auth.WithLogger(logger.With().Str("component", "auth").Logger()),
		auth.WithRoleResolver(roles),
	)
	return &App{
		Config:  cfg,
		Logger:  logger,
		Slot:    slot,
		Repo:    repo,
		Store:   store,
		Service: svc,
	}
}

// Close stops the expiry timer and background key refresh and closes the
// repository.
func (a *App) Close() error {
	a.Service.Scheduler().Cancel()
	if a.jwks != nil {
		a.jwks.Close()
	}
	if err := a.Repo.Close(); err != nil {
		return fmt.Errorf("close session store: %w", err)
	}
	return nil
}
