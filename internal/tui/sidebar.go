// Package tui runs the queue sidebar: a raw-mode terminal UI that owns its
// state on a single event loop goroutine. Key input, timers and store change
// notifications are all serialized through Sidebar.Run.
package tui

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/terminal"
	"github.com/colonyops/queuebar/internal/core/todo"
	"github.com/colonyops/queuebar/internal/tui/editbuf"
	"github.com/colonyops/queuebar/internal/tui/input"
	"github.com/colonyops/queuebar/internal/tui/render"
)

// Store is the persistence the sidebar reads and writes.
type Store interface {
	Board(ctx context.Context) (task.Board, error)
	UpdateBoard(ctx context.Context, fn func(task.Board) (task.Board, error)) (task.Board, error)
	Todos(ctx context.Context) ([]todo.Item, error)
	Metrics(ctx context.Context) (*task.Metrics, error)
	AppendHistory(ctx context.Context, content string, at time.Time) error
}

// Options configures a Sidebar.
type Options struct {
	DispatchPolicy     task.DispatchPolicy
	DoneRetention      int
	MatchThreshold     float64
	IdleConfirmations  int
	RefreshInterval    time.Duration
	CompletionInterval time.Duration
	ShowTodos          bool
	ShowMetrics        bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Size is a terminal size in cells.
type Size struct {
	Width, Height int
}

// Sources are the event streams Run multiplexes. Nil channels are ignored.
type Sources struct {
	Input   <-chan []byte
	Resize  <-chan Size
	Changes <-chan struct{}
}

// Sidebar is the sidebar state machine.
type Sidebar struct {
	opts    Options
	store   Store
	backend pane.Backend
	painter *render.Painter
	sched   *Scheduler
	tracker *terminal.CompletionTracker

	board   task.Board
	sorted  []task.Queued
	todos   []todo.Item
	metrics *task.Metrics
	sig     string
	stale   bool

	// completed todos already present when the active task was sent
	seenCompleted map[string]bool

	mode      render.Mode
	editingID string
	buf       *editbuf.Buffer

	section      render.Section
	selected     int
	doneSelected int
	focusActive  bool
	focused      bool
	size         Size
	flash        string

	quit bool
}

// New returns a sidebar. backend may be nil when no pane backend was
// detected; dispatch then reports it instead of changing state.
func New(opts Options, store Store, backend pane.Backend, painter *render.Painter) *Sidebar {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DispatchPolicy == "" {
		opts.DispatchPolicy = task.PolicyReject
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Second
	}
	if opts.CompletionInterval <= 0 {
		opts.CompletionInterval = 2500 * time.Millisecond
	}

	return &Sidebar{
		opts:    opts,
		store:   store,
		backend: backend,
		painter: painter,
		sched:   NewScheduler(opts.RefreshInterval, opts.CompletionInterval),
		tracker: terminal.NewCompletionTracker(opts.IdleConfirmations),
		buf:     editbuf.New(""),
		focused: true,
	}
}

// SetSize records the terminal size without painting.
func (s *Sidebar) SetSize(sz Size) { s.size = sz }

// Quit reports whether the user asked to leave.
func (s *Sidebar) Quit() bool { return s.quit }

// Mode returns the current input mode.
func (s *Sidebar) Mode() render.Mode { return s.mode }

// Board returns the in-memory board.
func (s *Sidebar) Board() task.Board { return s.board }

// Flash returns the current footer message.
func (s *Sidebar) Flash() string { return s.flash }

type idleResult struct {
	gen  uint64
	idle bool
	err  error
}

// Run processes events until the user quits, the input closes or ctx is
// cancelled.
func (s *Sidebar) Run(ctx context.Context, src Sources) error {
	defer s.sched.Stop()

	if _, err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load failed")
	}
	s.paintFull()

	var dec input.Decoder
	results := make(chan idleResult, 1)
	inflight := false

	handle := func(evs []input.Event) {
		for _, ev := range evs {
			if s.quit {
				return
			}
			s.HandleKey(ctx, ev)
		}
	}

	for !s.quit {
		select {
		case <-ctx.Done():
			return nil

		case chunk, ok := <-src.Input:
			if !ok {
				return nil
			}
			handle(dec.Feed(chunk))
			if dec.Pending() {
				s.sched.ArmEscape()
			} else {
				s.sched.DisarmEscape()
			}

		case <-s.sched.EscapeC():
			handle(dec.Flush())

		case sz := <-src.Resize:
			s.Resize(sz)

		case _, ok := <-src.Changes:
			if !ok {
				src.Changes = nil
				continue
			}
			s.onStoreChange(ctx)

		case <-s.sched.RefreshC():
			s.onStoreChange(ctx)

		case <-s.sched.CompletionC():
			if s.board.Active == nil || s.backend == nil || inflight {
				continue
			}
			inflight = true
			gen := s.sched.Generation()
			go func() {
				idle, err := s.backend.IsIdle(ctx)
				results <- idleResult{gen: gen, idle: idle, err: err}
			}()

		case r := <-results:
			inflight = false
			s.applyIdle(ctx, r)
		}
	}
	return nil
}

// applyIdle drops results of captures started before the last pause,
// dispatch or return; they describe a different task.
func (s *Sidebar) applyIdle(ctx context.Context, r idleResult) {
	if r.gen != s.sched.Generation() {
		log.Debug().Msg("discarding stale capture")
		return
	}
	s.HandleIdle(ctx, r.idle, r.err)
}

// onStoreChange reloads data unless text is being edited, in which case the
// reload waits until editing ends.
func (s *Sidebar) onStoreChange(ctx context.Context) {
	if s.mode != render.ModeNormal {
		s.stale = true
		return
	}
	changed, err := s.Refresh(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("refresh failed")
		return
	}
	if changed {
		s.paintFull()
	}
}

// Refresh reloads the board, todos and metrics and reports whether anything
// differs from the in-memory copy. While a task is active, a newly completed
// assistant todo that matches it completes the task.
func (s *Sidebar) Refresh(ctx context.Context) (bool, error) {
	b, err := s.store.Board(ctx)
	if err != nil {
		return false, err
	}
	todos, err := s.store.Todos(ctx)
	if err != nil {
		return false, err
	}
	metrics, err := s.store.Metrics(ctx)
	if err != nil {
		return false, err
	}
	s.stale = false

	sig := signature(b, todos, metrics)
	if sig == s.sig {
		return false, nil
	}

	s.setBoard(b)
	s.todos = todos
	s.metrics = metrics
	s.sig = sig

	s.matchTodos(ctx)
	return true, nil
}

func signature(b task.Board, todos []todo.Item, m *task.Metrics) string {
	data, _ := json.Marshal(struct {
		Board   task.Board    `json:"board"`
		Todos   []todo.Item   `json:"todos"`
		Metrics *task.Metrics `json:"metrics"`
	}{b, todos, m})
	return string(data)
}

func (s *Sidebar) matchTodos(ctx context.Context) {
	if s.board.Active == nil || s.opts.MatchThreshold <= 0 {
		return
	}
	var fresh []string
	for _, c := range todo.Completed(s.todos) {
		if !s.seenCompleted[c] {
			fresh = append(fresh, c)
		}
	}
	if matched, ok := task.MatchCompleted(s.board.Active.Content, fresh, s.opts.MatchThreshold); ok {
		log.Info().Str("task_id", s.board.Active.ID).Str("todo", matched).Msg("active task matched completed todo")
		if s.seenCompleted == nil {
			s.seenCompleted = make(map[string]bool)
		}
		s.seenCompleted[matched] = true
		s.completeActive(ctx)
	}
}

// setBoard installs b and keeps the selection in range.
func (s *Sidebar) setBoard(b task.Board) {
	s.board = b
	s.sorted = b.Sorted()
	s.sig = ""

	s.selected = clamp(s.selected, len(s.sorted))
	s.doneSelected = clamp(s.doneSelected, len(b.Done))
	if s.section == render.SectionDone && len(b.Done) == 0 {
		s.section = render.SectionQueue
	}
	if b.Active == nil {
		s.focusActive = false
	}
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}

// Resize records the new size and repaints everything.
func (s *Sidebar) Resize(sz Size) {
	s.size = sz
	s.painter.Invalidate()
	s.paintFull()
}

func (s *Sidebar) view() render.View {
	v := render.View{
		Width:        s.size.Width,
		Height:       s.size.Height,
		Focused:      s.focused,
		Mode:         s.mode,
		Active:       s.board.Active,
		Done:         s.board.Done,
		Queue:        s.sorted,
		Todos:        s.todos,
		Metrics:      s.metrics,
		Section:      s.section,
		Selected:     s.selected,
		DoneSelected: s.doneSelected,
		FocusActive:  s.focusActive,
		Flash:        s.flash,
		ShowTodos:    s.opts.ShowTodos,
		ShowMetrics:  s.opts.ShowMetrics,
		Now:          s.opts.Now(),
	}
	if s.mode != render.ModeNormal {
		v.Input = s.buf.Runes()
		v.Cursor = s.buf.Cursor()
	}
	return v
}

func (s *Sidebar) paintFull() {
	if err := s.painter.Full(s.view()); err != nil {
		log.Error().Err(err).Msg("paint failed")
	}
}

func (s *Sidebar) paintInput() {
	if err := s.painter.Input(s.view()); err != nil {
		log.Error().Err(err).Msg("paint failed")
	}
}
