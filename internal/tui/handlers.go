package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/queuebar/internal/core/logging"
	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/todo"
	"github.com/colonyops/queuebar/internal/tui/input"
	"github.com/colonyops/queuebar/internal/tui/render"
)

// HandleKey applies one decoded input event.
func (s *Sidebar) HandleKey(ctx context.Context, ev input.Event) {
	switch ev.Kind {
	case input.KindFocusIn, input.KindFocusOut:
		s.focused = ev.Kind == input.KindFocusIn
		if s.mode == render.ModeNormal {
			s.paintFull()
		}
		return
	}

	if s.mode == render.ModeNormal {
		s.handleNormal(ctx, ev)
		return
	}
	s.handleEditing(ctx, ev)
}

func (s *Sidebar) handleNormal(ctx context.Context, ev input.Event) {
	hadFlash := s.flash != ""
	s.flash = ""

	switch ev.Kind {
	case input.KindEscape, input.KindInterrupt:
		s.quit = true
		return
	case input.KindEnter:
		s.dispatch(ctx)
		return
	case input.KindUp:
		s.move(-1)
	case input.KindDown:
		s.move(1)
	case input.KindTab:
		if s.board.Active == nil {
			return
		}
		s.focusActive = !s.focusActive
	case input.KindRune:
		if !s.handleNormalRune(ctx, ev.Rune) {
			if hadFlash {
				s.paintFull()
			}
			return
		}
	default:
		// paste content and editing keys mean nothing here
		if hadFlash {
			s.paintFull()
		}
		return
	}
	s.paintFull()
}

// handleNormalRune reports whether the rune was a command that needs a
// repaint.
func (s *Sidebar) handleNormalRune(ctx context.Context, r rune) bool {
	switch r {
	case 'q':
		s.quit = true
		return false
	case 'a':
		s.startEditing(render.ModeAdd, "", "")
		return false
	case 'e':
		if q, ok := s.selectedQueued(); ok {
			s.startEditing(render.ModeEdit, q.ID, q.Content)
		}
		return false
	case 'd':
		s.remove(ctx)
	case 'r':
		s.returnDone(ctx)
	case 'c':
		s.clearActive(ctx)
	case 'k':
		s.move(-1)
	case 'j':
		s.move(1)
	default:
		if r < '1' || r > '9' {
			return false
		}
		i := int(r - '1')
		if i >= len(s.sorted) {
			return false
		}
		s.section = render.SectionQueue
		s.selected = i
		s.focusActive = false
	}
	return true
}

func (s *Sidebar) handleEditing(ctx context.Context, ev input.Event) {
	b := s.buf
	switch ev.Kind {
	case input.KindEnter:
		s.submit(ctx)
		return
	case input.KindEscape, input.KindInterrupt:
		s.stopEditing()
		s.paintFull()
		return
	case input.KindPaste:
		s.paste(ctx, ev.Text)
		return
	case input.KindRune:
		b.Insert(string(ev.Rune))
	case input.KindBackspace:
		b.Backspace()
	case input.KindDelete:
		b.Delete()
	case input.KindLeft:
		b.Left()
	case input.KindRight:
		b.Right()
	case input.KindWordLeft:
		b.WordLeft()
	case input.KindWordRight:
		b.WordRight()
	case input.KindHome, input.KindLineStart:
		b.Home()
	case input.KindEnd, input.KindLineEnd:
		b.End()
	case input.KindKillToStart:
		b.KillToStart()
	case input.KindKillToEnd:
		b.KillToEnd()
	case input.KindKillWord:
		b.KillWord()
	default:
		return
	}
	s.paintInput()
}

// startEditing enters an editing mode with the cursor at the end of text.
// Polling stops until editing ends.
func (s *Sidebar) startEditing(mode render.Mode, id, text string) {
	s.sched.Pause()
	s.mode = mode
	s.editingID = id
	s.buf.Set(text)
	s.flash = ""
	s.paintFull()
}

func (s *Sidebar) stopEditing() {
	s.mode = render.ModeNormal
	s.editingID = ""
	s.buf.Reset()
	s.sched.Resume()
}

func (s *Sidebar) submit(ctx context.Context) {
	text := s.buf.Trimmed()
	mode, id := s.mode, s.editingID
	s.stopEditing()

	if text != "" {
		switch mode {
		case render.ModeAdd:
			s.addTasks(ctx, text)
		case render.ModeEdit:
			err := s.mutate(ctx, func(b task.Board) (task.Board, error) {
				return b.Edit(id, text)
			})
			if err != nil {
				s.fail("edit", err)
			}
		}
	}
	s.catchUp(ctx)
	s.paintFull()
}

// paste applies bracketed-paste content. In add mode two or more non-empty
// lines become one task each; otherwise the text is inserted at the cursor
// with newlines flattened.
func (s *Sidebar) paste(ctx context.Context, text string) {
	if s.mode == render.ModeAdd {
		var lines []string
		for line := range strings.SplitSeq(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) >= 2 {
			if pending := s.buf.Trimmed(); pending != "" {
				lines = append([]string{pending}, lines...)
			}
			s.stopEditing()
			s.addTasks(ctx, lines...)
			s.catchUp(ctx)
			s.paintFull()
			return
		}
	}
	s.buf.Insert(strings.ReplaceAll(text, "\n", " "))
	s.paintInput()
}

// catchUp applies a store change that arrived while editing.
func (s *Sidebar) catchUp(ctx context.Context) {
	if !s.stale {
		return
	}
	if _, err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("refresh failed")
	}
}

func (s *Sidebar) addTasks(ctx context.Context, contents ...string) {
	var added []task.Queued
	err := s.mutate(ctx, func(b task.Board) (task.Board, error) {
		next, qs := b.Add(s.opts.Now(), contents...)
		added = qs
		return next, nil
	})
	if err != nil {
		s.fail("add", err)
		return
	}
	if len(added) == 0 {
		return
	}
	s.selectID(added[len(added)-1].ID)
}

func (s *Sidebar) selectID(id string) {
	for i, q := range s.sorted {
		if q.ID == id {
			s.section = render.SectionQueue
			s.selected = i
			return
		}
	}
}

// mutate runs fn against the stored board and installs the result.
func (s *Sidebar) mutate(ctx context.Context, fn func(task.Board) (task.Board, error)) error {
	b, err := s.store.UpdateBoard(ctx, fn)
	if err != nil {
		return err
	}
	s.setBoard(b)
	return nil
}

func (s *Sidebar) fail(op string, err error) {
	log.Error().Err(err).Str("op", op).Msg("board update failed")
	s.flash = fmt.Sprintf("%s failed: %v", op, err)
}

func (s *Sidebar) selectedQueued() (task.Queued, bool) {
	if s.section != render.SectionQueue || s.selected >= len(s.sorted) {
		return task.Queued{}, false
	}
	return s.sorted[s.selected], true
}

func (s *Sidebar) selectedDone() (task.Done, bool) {
	if s.section != render.SectionDone || s.doneSelected >= len(s.board.Done) {
		return task.Done{}, false
	}
	return s.board.Done[s.doneSelected], true
}

// dispatch sends the selected task to the assistant pane. The board only
// changes after the text was delivered.
func (s *Sidebar) dispatch(ctx context.Context) {
	q, ok := s.selectedQueued()
	if !ok {
		s.paintFull()
		return
	}

	switch {
	case s.backend == nil:
		s.flash = "no pane backend: run inside tmux or iTerm2"
	case s.board.Active != nil && s.opts.DispatchPolicy == task.PolicyReject:
		s.flash = "a task is already in progress"
	}
	if s.flash != "" {
		s.paintFull()
		return
	}

	ctx = logging.WithTaskID(ctx, q.ID)
	if err := s.backend.SendText(ctx, q.Content); err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("send failed")
		s.flash = "send failed: " + err.Error()
		if errors.Is(err, pane.ErrNoBackend) {
			s.flash = "no pane backend: run inside tmux or iTerm2"
		}
		s.paintFull()
		return
	}

	now := s.opts.Now()
	var finalized *task.Done
	err := s.mutate(ctx, func(b task.Board) (task.Board, error) {
		next, done, err := b.Dispatch(q.ID, now, s.opts.DispatchPolicy, s.opts.DoneRetention)
		finalized = done
		return next, err
	})
	if err != nil {
		s.fail("dispatch", err)
		s.paintFull()
		return
	}
	if finalized != nil {
		log.Info().Ctx(logging.WithTaskID(ctx, finalized.ID)).Msg("previous task finalized to review")
	}
	log.Info().Ctx(ctx).Msg("task dispatched")

	if err := s.store.AppendHistory(ctx, q.Content, now); err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("history append failed")
	}
	s.restartCompletion()
	s.paintFull()

	if err := s.backend.FocusOther(ctx); err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("focus assistant pane failed")
	}
}

func (s *Sidebar) remove(ctx context.Context) {
	if d, ok := s.selectedDone(); ok {
		if err := s.mutate(ctx, func(b task.Board) (task.Board, error) { return b.Confirm(d.ID) }); err != nil {
			s.fail("confirm", err)
		}
		return
	}
	if q, ok := s.selectedQueued(); ok {
		if err := s.mutate(ctx, func(b task.Board) (task.Board, error) { return b.Delete(q.ID) }); err != nil {
			s.fail("delete", err)
		}
	}
}

func (s *Sidebar) returnDone(ctx context.Context) {
	d, ok := s.selectedDone()
	if !ok {
		return
	}
	if s.board.Active != nil && s.opts.DispatchPolicy == task.PolicyReject {
		s.flash = "a task is already in progress"
		return
	}
	err := s.mutate(ctx, func(b task.Board) (task.Board, error) {
		next, _, err := b.Return(d.ID, s.opts.Now(), s.opts.DispatchPolicy, s.opts.DoneRetention)
		return next, err
	})
	if err != nil {
		s.fail("return", err)
		return
	}
	s.restartCompletion()
}

// restartCompletion starts detection afresh for a newly active task: the
// idle streak and in-flight captures are dropped, and todos completed so far
// can no longer match it.
func (s *Sidebar) restartCompletion() {
	s.tracker.Reset()
	s.sched.Invalidate()
	s.seenCompleted = make(map[string]bool)
	for _, c := range todo.Completed(s.todos) {
		s.seenCompleted[c] = true
	}
}

// clearActive moves the active task to review without waiting for the
// assistant.
func (s *Sidebar) clearActive(ctx context.Context) {
	if s.board.Active == nil {
		return
	}
	s.completeActive(ctx)
}

// completeActive moves the active task to done.
func (s *Sidebar) completeActive(ctx context.Context) {
	err := s.mutate(ctx, func(b task.Board) (task.Board, error) {
		next, _, err := b.Complete(s.opts.Now(), s.opts.DoneRetention)
		return next, err
	})
	s.tracker.Reset()
	if err != nil && !errors.Is(err, task.ErrNotFound) {
		s.fail("complete", err)
	}
}

// HandleIdle applies one completion check result.
func (s *Sidebar) HandleIdle(ctx context.Context, idle bool, err error) {
	if s.board.Active == nil {
		s.tracker.Reset()
		return
	}
	if err != nil {
		log.Debug().Err(err).Msg("capture failed, skipping tick")
		return
	}
	if !s.tracker.Observe(idle) {
		return
	}
	log.Info().Ctx(logging.WithTaskID(ctx, s.board.Active.ID)).Msg("assistant idle, completing task")
	s.completeActive(ctx)
	s.paintFull()
}

// move steps the selection through the review list followed by the queue,
// wrapping at both ends.
func (s *Sidebar) move(delta int) {
	nd, nq := len(s.board.Done), len(s.sorted)
	total := nd + nq
	if total == 0 {
		return
	}
	s.focusActive = false

	pos := nd + s.selected
	if s.section == render.SectionDone {
		pos = s.doneSelected
	}
	pos = ((pos+delta)%total + total) % total

	if pos < nd {
		s.section = render.SectionDone
		s.doneSelected = pos
		return
	}
	s.section = render.SectionQueue
	s.selected = pos - nd
}
