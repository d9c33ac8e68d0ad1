// Package task defines the sidebar's task domain: queued, active and done
// tasks, and the board that holds them.
package task

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Queued is a task waiting to be dispatched to the assistant.
type Queued struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	Priority    *int      `json:"priority,omitempty"`
	Recommended bool      `json:"recommended,omitempty"`
	Clarified   bool      `json:"clarified,omitempty"`
	PlanRef     string    `json:"planRef,omitempty"`
}

// Active is the single task currently sent to the assistant.
type Active struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

// Done is a task judged complete and awaiting review.
type Done struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	CompletedAt time.Time `json:"completedAt"`
}

// Metrics mirrors the assistant's statusline numbers.
type Metrics struct {
	ContextPercent float64 `json:"contextPercent"`
	CostUSD        float64 `json:"costUsd"`
	DurationMS     int64   `json:"durationMs"`
	Model          string  `json:"model,omitempty"`
	Branch         string  `json:"branch,omitempty"`
	Repo           string  `json:"repo,omitempty"`
}

// NewQueued creates a task with a fresh id.
func NewQueued(content string, now time.Time) Queued {
	return Queued{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(content),
		CreatedAt: now,
	}
}

// Less orders tasks for display: prioritized tasks first by ascending
// priority, then unprioritized ones, ties broken by creation time and id.
func Less(a, b Queued) int {
	switch {
	case a.Priority != nil && b.Priority == nil:
		return -1
	case a.Priority == nil && b.Priority != nil:
		return 1
	case a.Priority != nil && b.Priority != nil && *a.Priority != *b.Priority:
		return cmp.Compare(*a.Priority, *b.Priority)
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortQueue returns a sorted copy of tasks. Persisted order is never trusted.
func SortQueue(tasks []Queued) []Queued {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, Less)
	return out
}

// IntPtr is a convenience for building priorities.
func IntPtr(v int) *int { return &v }
