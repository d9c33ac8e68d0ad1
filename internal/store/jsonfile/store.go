package jsonfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/colonyops/queuebar/internal/core/history"
	"github.com/colonyops/queuebar/internal/core/kv"
	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/todo"
	"github.com/rs/zerolog/log"
)

// Document keys within a project directory.
const (
	KeyBoard   = "board"
	KeyTodos   = "todos"
	KeyMetrics = "metrics"
	KeyPane    = "pane"

	historyFile = "history.log"
	markerFile  = "running"
)

// ProjectScope derives the stable scope id for a working directory.
func ProjectScope(cwd string) string {
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}
	sum := sha256.Sum256([]byte(filepath.Clean(cwd)))
	return hex.EncodeToString(sum[:])[:16]
}

// Store is the project-scoped persistence gateway. Readers of typed documents
// never fail on corrupt data: they log a warning and return the empty default.
type Store struct {
	scope   string
	docs    *DocStore
	board   kv.Doc[task.Board]
	todos   kv.Doc[[]todo.Item]
	metrics kv.Doc[*task.Metrics]
	pane    kv.Doc[pane.Record]
	history *HistoryLog
}

var _ pane.RecordStore = (*Store)(nil)

// Open returns the store for the project rooted at cwd under dataDir.
func Open(dataDir, cwd string) *Store {
	scope := ProjectScope(cwd)
	docs := NewDocStore(filepath.Join(dataDir, "projects", scope))
	return &Store{
		scope:   scope,
		docs:    docs,
		board:   kv.Bind[task.Board](docs, KeyBoard),
		todos:   kv.Bind[[]todo.Item](docs, KeyTodos),
		metrics: kv.Bind[*task.Metrics](docs, KeyMetrics),
		pane:    kv.Bind[pane.Record](docs, KeyPane),
		history: NewHistoryLog(filepath.Join(docs.Dir(), historyFile)),
	}
}

// Scope returns the project scope id.
func (s *Store) Scope() string { return s.scope }

// Dir returns the project directory.
func (s *Store) Dir() string { return s.docs.Dir() }

// Docs exposes the underlying document store.
func (s *Store) Docs() *DocStore { return s.docs }

// readDoc loads doc, substituting def for missing or corrupt documents.
func readDoc[T any](ctx context.Context, doc kv.Doc[T], def T) (T, error) {
	v, err := doc.LoadOr(ctx, def)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, ErrCorrupt) {
		log.Warn().Err(err).Str("doc", doc.Key()).Msg("corrupt document, using empty default")
		return def, nil
	}
	return def, err
}

// Board loads the queue, active slot and done list.
func (s *Store) Board(ctx context.Context) (task.Board, error) {
	return readDoc(ctx, s.board, task.Board{})
}

// SaveBoard replaces the board document.
func (s *Store) SaveBoard(ctx context.Context, b task.Board) error {
	if b.Queue == nil {
		b.Queue = []task.Queued{}
	}
	if b.Done == nil {
		b.Done = []task.Done{}
	}
	return s.board.Save(ctx, b)
}

// UpdateBoard applies fn to the current on-disk board under the board lock and
// saves the result. When fn fails nothing is written.
func (s *Store) UpdateBoard(ctx context.Context, fn func(task.Board) (task.Board, error)) (task.Board, error) {
	unlock, err := s.docs.Lock(ctx, KeyBoard)
	if err != nil {
		return task.Board{}, err
	}
	defer unlock()

	cur, err := s.Board(ctx)
	if err != nil {
		return task.Board{}, err
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	if err := s.SaveBoard(ctx, next); err != nil {
		return cur, fmt.Errorf("save board: %w", err)
	}
	return next, nil
}

// Queue returns the queued tasks in persisted order.
func (s *Store) Queue(ctx context.Context) ([]task.Queued, error) {
	b, err := s.Board(ctx)
	return b.Queue, err
}

// SetQueue replaces the queue.
func (s *Store) SetQueue(ctx context.Context, q []task.Queued) error {
	_, err := s.UpdateBoard(ctx, func(b task.Board) (task.Board, error) {
		b.Queue = q
		return b, nil
	})
	return err
}

// Active returns the active task, or nil.
func (s *Store) Active(ctx context.Context) (*task.Active, error) {
	b, err := s.Board(ctx)
	return b.Active, err
}

// SetActive replaces the active slot.
func (s *Store) SetActive(ctx context.Context, a *task.Active) error {
	_, err := s.UpdateBoard(ctx, func(b task.Board) (task.Board, error) {
		b.Active = a
		return b, nil
	})
	return err
}

// Done returns the review list, most recent first.
func (s *Store) Done(ctx context.Context) ([]task.Done, error) {
	b, err := s.Board(ctx)
	return b.Done, err
}

// SetDone replaces the review list.
func (s *Store) SetDone(ctx context.Context, d []task.Done) error {
	_, err := s.UpdateBoard(ctx, func(b task.Board) (task.Board, error) {
		b.Done = d
		return b, nil
	})
	return err
}

// Todos returns the assistant's mirrored todo list.
func (s *Store) Todos(ctx context.Context) ([]todo.Item, error) {
	return readDoc(ctx, s.todos, []todo.Item(nil))
}

// SetTodos replaces the mirrored todo list.
func (s *Store) SetTodos(ctx context.Context, items []todo.Item) error {
	if items == nil {
		items = []todo.Item{}
	}
	return s.todos.Save(ctx, items)
}

// Metrics returns the statusline snapshot, or nil when none was written.
func (s *Store) Metrics(ctx context.Context) (*task.Metrics, error) {
	return readDoc(ctx, s.metrics, (*task.Metrics)(nil))
}

// SetMetrics replaces the statusline snapshot. A nil snapshot removes it.
func (s *Store) SetMetrics(ctx context.Context, m *task.Metrics) error {
	if m == nil {
		return s.metrics.Clear(ctx)
	}
	return s.metrics.Save(ctx, m)
}

// PaneRecord returns the persisted pane pairing.
func (s *Store) PaneRecord(ctx context.Context) (pane.Record, error) {
	return readDoc(ctx, s.pane, pane.Record{})
}

// SetPaneRecord persists the pane pairing.
func (s *Store) SetPaneRecord(ctx context.Context, rec pane.Record) error {
	return s.pane.Save(ctx, rec)
}

// AppendHistory records a dispatched task.
func (s *Store) AppendHistory(ctx context.Context, content string, at time.Time) error {
	return s.history.Append(history.Entry{Time: at, Content: content})
}

// History returns dispatched tasks, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]history.Entry, error) {
	return s.history.List(limit)
}

// MarkerPath is the file present while a sidebar is running for the project.
func (s *Store) MarkerPath() string {
	return filepath.Join(s.docs.Dir(), markerFile)
}

// CreateMarker writes the running marker with the current pid.
func (s *Store) CreateMarker() error {
	if err := os.MkdirAll(s.docs.Dir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.MarkerPath(), fmt.Appendf(nil, "%d\n", os.Getpid()), 0o644)
}

// RemoveMarker deletes the running marker.
func (s *Store) RemoveMarker() error {
	err := os.Remove(s.MarkerPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Running reports whether a sidebar marker exists for the project.
func (s *Store) Running() bool {
	_, err := os.Stat(s.MarkerPath())
	return err == nil
}
