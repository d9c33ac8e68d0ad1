package tui

import "time"

// escapeTimeout is how long a lone ESC waits for the rest of a sequence.
const escapeTimeout = 50 * time.Millisecond

// Scheduler owns the sidebar's timers: data refresh, completion checks and
// the escape timeout. It is used only from the event loop goroutine.
//
// Pause stops the polling timers outright and bumps the generation so that a
// capture already in flight is ignored when its result arrives.
type Scheduler struct {
	refreshEvery    time.Duration
	completionEvery time.Duration

	refresh    *time.Ticker
	completion *time.Ticker
	escape     *time.Timer

	gen    uint64
	paused bool
}

// NewScheduler returns a running scheduler.
func NewScheduler(refresh, completion time.Duration) *Scheduler {
	return &Scheduler{
		refreshEvery:    refresh,
		completionEvery: completion,
		refresh:         time.NewTicker(refresh),
		completion:      time.NewTicker(completion),
	}
}

// RefreshC delivers data-refresh ticks.
func (s *Scheduler) RefreshC() <-chan time.Time { return s.refresh.C }

// CompletionC delivers completion-check ticks.
func (s *Scheduler) CompletionC() <-chan time.Time { return s.completion.C }

// EscapeC fires when an armed escape timeout expires. Nil until first armed.
func (s *Scheduler) EscapeC() <-chan time.Time {
	if s.escape == nil {
		return nil
	}
	return s.escape.C
}

// Generation identifies the current run of the polling timers.
func (s *Scheduler) Generation() uint64 { return s.gen }

// Paused reports whether the polling timers are stopped.
func (s *Scheduler) Paused() bool { return s.paused }

// Pause stops both polling timers.
func (s *Scheduler) Pause() {
	if s.paused {
		return
	}
	s.refresh.Stop()
	s.completion.Stop()
	s.gen++
	s.paused = true
}

// Invalidate bumps the generation without touching the timers. Captures
// already in flight come back stale.
func (s *Scheduler) Invalidate() { s.gen++ }

// Resume re-arms both polling timers with a full interval.
func (s *Scheduler) Resume() {
	if !s.paused {
		return
	}
	s.refresh.Reset(s.refreshEvery)
	s.completion.Reset(s.completionEvery)
	s.paused = false
}

// ArmEscape (re)starts the escape timeout.
func (s *Scheduler) ArmEscape() {
	if s.escape == nil {
		s.escape = time.NewTimer(escapeTimeout)
		return
	}
	s.escape.Reset(escapeTimeout)
}

// DisarmEscape cancels a pending escape timeout.
func (s *Scheduler) DisarmEscape() {
	if s.escape != nil {
		s.escape.Stop()
	}
}

// Stop releases every timer.
func (s *Scheduler) Stop() {
	s.Pause()
	s.DisarmEscape()
}
