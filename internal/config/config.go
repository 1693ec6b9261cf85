// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigrun-auth.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.rigrun-auth/config.toml
//   - ~/.rigrun-auth/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/rigrun-auth/internal/identity"
	"github.com/jeranaias/rigrun-auth/internal/session"
	"github.com/jeranaias/rigrun-auth/internal/util"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvHome           = "RIGRUN_AUTH_HOME"
	EnvAPIKey         = "RIGRUN_AUTH_API_KEY"
	EnvSessionBackend = "RIGRUN_AUTH_SESSION_BACKEND"
	EnvSessionPath    = "RIGRUN_AUTH_SESSION_PATH"
	EnvRedisURL       = "RIGRUN_AUTH_REDIS_URL"
	EnvLogLevel       = "RIGRUN_AUTH_LOG_LEVEL"
	EnvLogFormat      = "RIGRUN_AUTH_LOG_FORMAT"
	EnvJWKSURL        = "RIGRUN_AUTH_JWKS_URL"
)

const currentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigrun-auth configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Identity provider
	Identity IdentityConfig `toml:"identity" json:"identity"`

	// Session persistence
	Session SessionConfig `toml:"session" json:"session"`

	Logging LoggingConfig `toml:"logging" json:"logging"`

	UI UIConfig `toml:"ui" json:"ui"`
}

// IdentityConfig configures the identity provider client.
type IdentityConfig struct {
	APIKey      string `toml:"api_key" json:"api_key"`
	SignUpURL   string `toml:"sign_up_url" json:"sign_up_url"`
	SignInURL   string `toml:"sign_in_url" json:"sign_in_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`

	// JWKSURL enables signature checks on ID tokens before their role claim
	// is trusted. Empty reads claims unverified.
	JWKSURL string `toml:"jwks_url" json:"jwks_url"`

	// AdminClaim is the boolean claim that marks an administrator.
	AdminClaim string `toml:"admin_claim" json:"admin_claim"`

	// AdminUserIDs lists user ids treated as administrators regardless of
	// their claims.
	AdminUserIDs []string `toml:"admin_user_ids" json:"admin_user_ids"`

	// SubmitRatePerMinute limits submits from this client. Zero disables it.
	SubmitRatePerMinute int `toml:"submit_rate_per_minute" json:"submit_rate_per_minute"`
}

// Timeout returns the request timeout as a duration.
func (c IdentityConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// SessionConfig selects where the session is stored.
type SessionConfig struct {
	Backend  string `toml:"backend" json:"backend"`
	Path     string `toml:"path" json:"path"`
	RedisURL string `toml:"redis_url" json:"redis_url"`
	RedisKey string `toml:"redis_key" json:"redis_key"`

	// Watch re-reads the session file when another process changes it.
	Watch bool `toml:"watch" json:"watch"`
}

// Options converts the section into session.Options.
func (c SessionConfig) Options() session.Options {
	return session.Options{
		Backend:  c.Backend,
		Path:     c.Path,
		RedisURL: c.RedisURL,
		RedisKey: c.RedisKey,
	}
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"` // console or json
	// File receives logs while the TUI owns the terminal.
	File string `toml:"file" json:"file"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme string `toml:"theme" json:"theme"` // auto, dark or light
	// RedirectPath is where the client continues after signing in.
	RedirectPath string `toml:"redirect_path" json:"redirect_path"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".rigrun-auth"
	}
	return &Config{
		Version: currentVersion,
		Identity: IdentityConfig{
			SignUpURL:           identity.DefaultSignUpURL,
			SignInURL:           identity.DefaultSignInURL,
			TimeoutSecs:         int(identity.DefaultTimeout / time.Second),
			AdminClaim:          "admin",
			SubmitRatePerMinute: 10,
		},
		Session: SessionConfig{
			Backend:  session.BackendFile,
			Path:     filepath.Join(dir, "session.json"),
			RedisKey: session.DefaultRedisKey,
			Watch:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(dir, "rigrun-auth.log"),
		},
		UI: UIConfig{
			Theme:        "auto",
			RedirectPath: "/",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigrun-auth configuration directory path.
// RIGRUN_AUTH_HOME overrides it.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigrun-auth"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ensureSecurePermissions tightens config files to 0600; they hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory and the config
// directory. Variables already set in the environment win.
func LoadDotEnv() error {
	var files []string
	if _, err := os.Stat(".env"); err == nil {
		files = append(files, ".env")
	}
	if dir, err := ConfigDir(); err == nil {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg := Default()
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	// Defaults, with any load error for informational purposes.
	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finish applies env overrides, migration, defaults and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// LoadForEdit reads the file at path (the default TOML path when empty)
// without environment overrides, so saving it back never persists values
// that came from the environment. A missing file yields the defaults.
func LoadForEdit(path string) (*Config, string, error) {
	if path == "" {
		p, err := ConfigPathTOML()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		load := LoadTOML
		if strings.HasSuffix(path, ".json") {
			load = LoadJSON
		}
		if err := load(cfg, path); err != nil {
			return nil, "", err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := cfg.Migrate(); err != nil {
		return nil, "", fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	return cfg, path, nil
}

// SaveTo writes cfg to path as JSON or TOML depending on its extension.
func SaveTo(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# rigrun-auth configuration file\n")
	b.WriteString("# Generated by rigrun-auth - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(b.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
// A missing API key is not an error here; commands that need it report it.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Identity
	// ==========================================================================

	for field, raw := range map[string]string{
		"identity.sign_up_url": c.Identity.SignUpURL,
		"identity.sign_in_url": c.Identity.SignInURL,
	} {
		if msg := checkURL(raw); msg != "" {
			errs = append(errs, ValidationError{Field: field, Message: msg})
		}
	}
	if c.Identity.JWKSURL != "" {
		if msg := checkURL(c.Identity.JWKSURL); msg != "" {
			errs = append(errs, ValidationError{Field: "identity.jwks_url", Message: msg})
		}
	}
	if c.Identity.TimeoutSecs < 1 || c.Identity.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "identity.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.Identity.TimeoutSecs),
		})
	}
	if c.Identity.SubmitRatePerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "identity.submit_rate_per_minute",
			Message: "must not be negative",
		})
	}

	// ==========================================================================
	// Session
	// ==========================================================================

	switch strings.ToLower(c.Session.Backend) {
	case session.BackendMemory:
	case session.BackendFile, session.BackendSQLite:
		if c.Session.Path == "" {
			errs = append(errs, ValidationError{
				Field:   "session.path",
				Message: fmt.Sprintf("required for the %s backend", c.Session.Backend),
			})
		}
	case session.BackendRedis:
		if msg := checkRedisURL(c.Session.RedisURL); msg != "" {
			errs = append(errs, ValidationError{Field: "session.redis_url", Message: msg})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "session.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: memory, file, sqlite, redis", c.Session.Backend),
		})
	}

	// ==========================================================================
	// Logging and UI
	// ==========================================================================

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error, disabled", c.Logging.Level),
		})
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Logging.Format),
		})
	}
	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if !strings.HasPrefix(c.UI.RedirectPath, "/") {
		errs = append(errs, ValidationError{
			Field:   "ui.redirect_path",
			Message: fmt.Sprintf("invalid redirect path '%s', must start with '/'", c.UI.RedirectPath),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkURL(raw string) string {
	if raw == "" {
		return "must not be empty"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	return ""
}

func checkRedisURL(raw string) string {
	if raw == "" {
		return "required for the redis backend"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return fmt.Sprintf("URL scheme must be redis or rediss, got '%s'", u.Scheme)
	}
	return ""
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Identity.SignUpURL == "" {
		c.Identity.SignUpURL = defaults.Identity.SignUpURL
	}
	if c.Identity.SignInURL == "" {
		c.Identity.SignInURL = defaults.Identity.SignInURL
	}
	if c.Identity.TimeoutSecs == 0 {
		c.Identity.TimeoutSecs = defaults.Identity.TimeoutSecs
	}
	if c.Identity.AdminClaim == "" {
		c.Identity.AdminClaim = defaults.Identity.AdminClaim
	}

	if c.Session.Backend == "" {
		c.Session.Backend = defaults.Session.Backend
	}
	if c.Session.Path == "" {
		c.Session.Path = defaults.Session.Path
	}
	if c.Session.RedisKey == "" {
		c.Session.RedisKey = defaults.Session.RedisKey
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.RedirectPath == "" {
		c.UI.RedirectPath = defaults.UI.RedirectPath
	}
}

// Migrate handles migration from old configuration values.
func (c *Config) Migrate() error {
	// "json" was the old name of the file backend.
	if strings.ToLower(c.Session.Backend) == "json" {
		c.Session.Backend = session.BackendFile
	}
	c.Session.Backend = strings.ToLower(c.Session.Backend)

	// A leading ~ in paths means the home directory.
	for _, p := range []*string{&c.Session.Path, &c.Logging.File} {
		expanded, err := expandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	if c.Version == "" {
		c.Version = currentVersion
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGRUN_AUTH_API_KEY: overrides identity.api_key
//   - RIGRUN_AUTH_JWKS_URL: overrides identity.jwks_url
//   - RIGRUN_AUTH_SESSION_BACKEND: overrides session.backend
//   - RIGRUN_AUTH_SESSION_PATH: overrides session.path
//   - RIGRUN_AUTH_REDIS_URL: overrides session.redis_url
//   - RIGRUN_AUTH_LOG_LEVEL: overrides logging.level
//   - RIGRUN_AUTH_LOG_FORMAT: overrides logging.format
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Identity.APIKey = key
	}
	if jwks := os.Getenv(EnvJWKSURL); jwks != "" {
		c.Identity.JWKSURL = jwks
	}
	if backend := os.Getenv(EnvSessionBackend); backend != "" {
		c.Session.Backend = backend
	}
	if path := os.Getenv(EnvSessionPath); path != "" {
		c.Session.Path = path
	}
	if redisURL := os.Getenv(EnvRedisURL); redisURL != "" {
		c.Session.RedisURL = redisURL
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Logging.Format = format
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "session.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "session.backend").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// equivalent. Matching is case-insensitive, so "api_key" finds APIKey.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, s := range strings.Split(strVal, ",") {
					if s = strings.TrimSpace(s); s != "" {
						items = append(items, s)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"identity.api_key",
		"identity.sign_up_url",
		"identity.sign_in_url",
		"identity.timeout_secs",
		"identity.jwks_url",
		"identity.admin_claim",
		"identity.admin_user_ids",
		"identity.submit_rate_per_minute",
		"session.backend",
		"session.path",
		"session.redis_url",
		"session.redis_key",
		"session.watch",
		"logging.level",
		"logging.format",
		"logging.file",
		"ui.theme",
		"ui.redirect_path",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Identity.AdminUserIDs != nil {
		clone.Identity.AdminUserIDs = append([]string(nil), c.Identity.AdminUserIDs...)
	}
	return &clone
}

// String returns a string representation of the config with the API key
// redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Identity.APIKey != "" {
		safe.Identity.APIKey = "[REDACTED]"
	}
	if safe.Session.RedisURL != "" {
		safe.Session.RedisURL = redactURL(safe.Session.RedisURL)
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "REDACTED")
	}
	return u.String()
}
