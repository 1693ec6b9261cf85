// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultWatchDebounce coalesces the burst of events an atomic rename makes.
const DefaultWatchDebounce = 150 * time.Millisecond

// Watch calls onChange whenever another process creates, replaces or removes
// the session file. Writes made through this FileStore are not reported.
// Watch returns once the watcher is running; it stops when ctx is done.
func (f *FileStore) Watch(ctx context.Context, logger zerolog.Logger, onChange func()) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: atomic renames replace the file's inode.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go f.processEvents(ctx, watcher, logger, onChange)
	return nil
}

func (f *FileStore) processEvents(ctx context.Context, watcher *fsnotify.Watcher, logger zerolog.Logger, onChange func()) {
	defer watcher.Close()

	name := filepath.Clean(f.path)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	fire := func() {
		if f.changedExternally() {
			logger.Info().Str("path", name).Msg("session file changed by another process")
			onChange()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(DefaultWatchDebounce, fire)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("session watcher error")
		}
	}
}
