// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/rigrun-auth/internal/util"
)

// FileStore keeps the session keys in a single JSON object on disk, the
// terminal counterpart of browser local storage.
type FileStore struct {
	path string

	mu   sync.Mutex
	last []byte // contents of our last write, nil after Clear
}

// NewFileStore creates a store backed by path. The file is created on the
// first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Get implements Repository.
func (f *FileStore) Get(ctx context.Context) (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	values := make(map[string]string, len(Keys))
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Decode(values)
}

// Set implements Repository. The file is replaced atomically so readers see
// either the old keys or the new ones.
func (f *FileStore) Set(ctx context.Context, s Session) error {
	data, err := json.MarshalIndent(s.Encode(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// SECURITY: the token grants account access, keep it owner-only
	if err := util.AtomicWriteFileWithDir(f.path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	f.last = data
	return nil
}

// Clear implements Repository.
func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	f.last = nil
	return nil
}

// Close implements Repository.
func (f *FileStore) Close() error { return nil }

// changedExternally reports whether the file differs from what this store
// last wrote or last observed, and records the current contents.
func (f *FileStore) changedExternally() bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		data = nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if bytes.Equal(data, f.last) {
		return false
	}
	f.last = data
	return true
}
