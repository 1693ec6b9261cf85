// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"chatty":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json", false)

	logger.Info().Msg("hidden")
	logger.Warn().Str("code", "X").Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "X", entry["code"])
	assert.Equal(t, "rigrun-auth", entry["app"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "console", false)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "auth.log")

	logger, closer, err := Init(Options{Level: "debug", Format: "json", File: path}, os.Stderr)
	require.NoError(t, err)
	t.Cleanup(func() { log.Logger = zerolog.Nop() })
	logger.Debug().Msg("to file")
	log.Debug().Msg("global logger")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, string(data), "global logger")
}

func TestInit_Stderr(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Init(Options{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("to writer")
	assert.Contains(t, buf.String(), "to writer")
}
