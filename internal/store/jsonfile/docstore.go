// Package jsonfile implements the persistence gateway on plain JSON files:
// one document per key, written atomically, plus an append-only history log.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/queuebar/internal/core/kv"
	"github.com/gofrs/flock"
	"github.com/google/renameio/v2/maybe"
)

// ErrCorrupt is returned when a document exists but does not parse.
var ErrCorrupt = errors.New("corrupt document")

const (
	docExt  = ".json"
	lockExt = ".lock"

	lockRetry = 10 * time.Millisecond
	lockWait  = 2 * time.Second
)

// DocStore implements kv.KV with one JSON file per key inside dir.
type DocStore struct {
	dir string
	mu  sync.Mutex
}

var _ kv.KV = (*DocStore)(nil)

// NewDocStore creates a store rooted at dir. The directory is created lazily.
func NewDocStore(dir string) *DocStore {
	return &DocStore{dir: dir}
}

// Dir returns the directory holding the documents.
func (s *DocStore) Dir() string { return s.dir }

func (s *DocStore) path(key string) string {
	return filepath.Join(s.dir, key+docExt)
}

// Get decodes the document for key into dest. Missing documents return
// kv.ErrNotFound; unparsable ones wrap ErrCorrupt.
func (s *DocStore) Get(ctx context.Context, key string, dest any) error {
	data, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%s: %w: %w", key, ErrCorrupt, err)
	}
	return nil
}

// GetRaw returns the stored bytes for key.
func (s *DocStore) GetRaw(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, kv.ErrNotFound)
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w: empty file", key, ErrCorrupt)
	}
	return data, nil
}

// Set encodes value and replaces the document atomically.
func (s *DocStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, append(data, '\n'))
}

// write replaces the document through a renamed temp file so readers never
// observe a partial document.
func (s *DocStore) write(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return maybe.WriteFile(s.path(key), data, 0o644)
}

// Delete removes the document for key. Missing keys are not an error.
func (s *DocStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Has reports whether a document exists for key.
func (s *DocStore) Has(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ListKeys returns all document keys in sorted order.
func (s *DocStore) ListKeys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, docExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, docExt))
	}
	slices.Sort(keys)
	return keys, nil
}

// Lock takes a cross-process lock on key, used for read-modify-write cycles
// shared between the sidebar and the CLI. The lock is an flock(2) on
// <key>.lock, so the kernel releases it when a holder dies.
func (s *DocStore) Lock(ctx context.Context, key string) (unlock func(), err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	fl := flock.New(filepath.Join(s.dir, key+lockExt))

	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	ok, err := fl.TryLockContext(waitCtx, lockRetry)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("lock %s: timed out", key)
		}
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", key)
	}
	return func() { _ = fl.Unlock() }, nil
}
