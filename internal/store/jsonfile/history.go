package jsonfile

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/colonyops/queuebar/internal/core/history"
	"github.com/rs/zerolog/log"
)

// HistoryLog is the append-only record of dispatched tasks.
type HistoryLog struct {
	path string
	mu   sync.Mutex
}

// NewHistoryLog creates a log at path.
func NewHistoryLog(path string) *HistoryLog {
	return &HistoryLog{path: path}
}

// Append writes one line. O_APPEND keeps concurrent writers from interleaving
// within a line.
func (h *HistoryLog) Append(e history.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(e.Line() + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// List returns entries newest first, at most limit (0 means all). Malformed
// lines are skipped.
func (h *HistoryLog) List(limit int) ([]history.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var entries []history.Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		e, err := history.Parse(sc.Text())
		if err != nil {
			log.Debug().Err(err).Str("path", h.path).Msg("skipping history line")
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
