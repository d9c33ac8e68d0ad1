package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when an id is not in the expected collection.
	ErrNotFound = errors.New("task not found")
	// ErrActiveBusy is returned when a dispatch is rejected because another
	// task is still active.
	ErrActiveBusy = errors.New("a task is already in progress")
	// ErrEmpty is returned for blank task content.
	ErrEmpty = errors.New("task content is empty")
)

// DispatchPolicy decides what happens when a task is dispatched while another
// is still active.
type DispatchPolicy string

const (
	// PolicyReject leaves everything unchanged and reports ErrActiveBusy.
	PolicyReject DispatchPolicy = "reject"
	// PolicyFinalize moves the current active task to Done first.
	PolicyFinalize DispatchPolicy = "finalize"
)

// IsValid reports whether p is a known policy.
func (p DispatchPolicy) IsValid() bool {
	return p == PolicyReject || p == PolicyFinalize
}

// Board is the persisted queue, active slot and review list. All mutations
// return a new Board so a failed persistence write never leaves a half-applied
// transition in memory.
type Board struct {
	Queue  []Queued `json:"queue"`
	Active *Active  `json:"active"`
	Done   []Done   `json:"done"`
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	out := Board{
		Queue: slices.Clone(b.Queue),
		Done:  slices.Clone(b.Done),
	}
	if b.Active != nil {
		a := *b.Active
		out.Active = &a
	}
	for i, q := range out.Queue {
		if q.Priority != nil {
			out.Queue[i].Priority = IntPtr(*q.Priority)
		}
	}
	return out
}

// Sorted returns the queue in display order.
func (b Board) Sorted() []Queued {
	return SortQueue(b.Queue)
}

// Find returns the queued task with id.
func (b Board) Find(id string) (Queued, bool) {
	i := slices.IndexFunc(b.Queue, func(q Queued) bool { return q.ID == id })
	if i < 0 {
		return Queued{}, false
	}
	return b.Queue[i], true
}

// Add appends tasks to the queue. Blank contents are skipped.
func (b Board) Add(now time.Time, contents ...string) (Board, []Queued) {
	out := b.Clone()
	var added []Queued
	for i, c := range contents {
		if strings.TrimSpace(c) == "" {
			continue
		}
		// Bulk adds keep their paste order under the createdAt sort.
		q := NewQueued(c, now.Add(time.Duration(i)*time.Microsecond))
		out.Queue = append(out.Queue, q)
		added = append(added, q)
	}
	return out, added
}

// Edit replaces the content of a queued task.
func (b Board) Edit(id, content string) (Board, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return b, ErrEmpty
	}
	out := b.Clone()
	i := slices.IndexFunc(out.Queue, func(q Queued) bool { return q.ID == id })
	if i < 0 {
		return b, fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	out.Queue[i].Content = content
	return out, nil
}

// Annotate applies fn to a copy of the queued task with id. It is used for
// metadata (priority, markers) that never changes the content.
func (b Board) Annotate(id string, fn func(q *Queued)) (Board, error) {
	out := b.Clone()
	i := slices.IndexFunc(out.Queue, func(q Queued) bool { return q.ID == id })
	if i < 0 {
		return b, fmt.Errorf("annotate %s: %w", id, ErrNotFound)
	}
	q := out.Queue[i]
	fn(&q)
	q.ID = out.Queue[i].ID
	q.Content = out.Queue[i].Content
	q.CreatedAt = out.Queue[i].CreatedAt
	out.Queue[i] = q
	return out, nil
}

// Delete removes a queued task.
func (b Board) Delete(id string) (Board, error) {
	out := b.Clone()
	n := len(out.Queue)
	out.Queue = slices.DeleteFunc(out.Queue, func(q Queued) bool { return q.ID == id })
	if len(out.Queue) == n {
		return b, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return out, nil
}

// Dispatch moves a queued task into the active slot. When a task is already
// active the policy decides; with PolicyFinalize the previous task is
// returned as finalized so the caller can log it.
func (b Board) Dispatch(id string, now time.Time, policy DispatchPolicy, retention int) (Board, *Done, error) {
	q, ok := b.Find(id)
	if !ok {
		return b, nil, fmt.Errorf("dispatch %s: %w", id, ErrNotFound)
	}

	out, finalized, err := b.makeRoom(now, policy, retention)
	if err != nil {
		return b, nil, err
	}

	out.Queue = slices.DeleteFunc(out.Queue, func(t Queued) bool { return t.ID == id })
	out.Active = &Active{ID: q.ID, Content: q.Content, SentAt: now}
	return out, finalized, nil
}

// Complete moves the active task to the front of Done.
func (b Board) Complete(now time.Time, retention int) (Board, *Done, error) {
	if b.Active == nil {
		return b, nil, fmt.Errorf("complete: %w", ErrNotFound)
	}
	out := b.Clone()
	d := Done{ID: out.Active.ID, Content: out.Active.Content, CompletedAt: now}
	out.Active = nil
	out.Done = pushDone(out.Done, d, retention)
	return out, &d, nil
}

// Confirm removes a reviewed entry from Done.
func (b Board) Confirm(id string) (Board, error) {
	out := b.Clone()
	n := len(out.Done)
	out.Done = slices.DeleteFunc(out.Done, func(d Done) bool { return d.ID == id })
	if len(out.Done) == n {
		return b, fmt.Errorf("confirm %s: %w", id, ErrNotFound)
	}
	return out, nil
}

// Return moves a Done entry back to the active slot, reversing a premature
// completion. The dispatch policy applies if another task is active.
func (b Board) Return(id string, now time.Time, policy DispatchPolicy, retention int) (Board, *Done, error) {
	i := slices.IndexFunc(b.Done, func(d Done) bool { return d.ID == id })
	if i < 0 {
		return b, nil, fmt.Errorf("return %s: %w", id, ErrNotFound)
	}
	d := b.Done[i]

	out := b.Clone()
	out.Done = slices.Delete(out.Done, i, i+1)

	out, finalized, err := out.makeRoom(now, policy, retention)
	if err != nil {
		return b, nil, err
	}
	out.Active = &Active{ID: d.ID, Content: d.Content, SentAt: now}
	return out, finalized, nil
}

func (b Board) makeRoom(now time.Time, policy DispatchPolicy, retention int) (Board, *Done, error) {
	if b.Active == nil {
		return b.Clone(), nil, nil
	}
	if policy != PolicyFinalize {
		return b, nil, ErrActiveBusy
	}
	return b.Complete(now, retention)
}

// pushDone prepends d and evicts the oldest entries beyond retention.
func pushDone(list []Done, d Done, retention int) []Done {
	list = append([]Done{d}, list...)
	if retention > 0 && len(list) > retention {
		list = list[:retention]
	}
	return list
}

// Validate checks the cross-collection invariant: every id appears once.
func (b Board) Validate() error {
	seen := make(map[string]string)
	check := func(id, where string) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("task %s in both %s and %s", id, prev, where)
		}
		seen[id] = where
		return nil
	}
	for _, q := range b.Queue {
		if err := check(q.ID, "queue"); err != nil {
			return err
		}
	}
	if b.Active != nil {
		if err := check(b.Active.ID, "active"); err != nil {
			return err
		}
	}
	for _, d := range b.Done {
		if err := check(d.ID, "done"); err != nil {
			return err
		}
	}
	return nil
}
