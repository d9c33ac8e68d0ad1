// Package pane drives the terminal pane that hosts the coding assistant:
// injecting text, capturing recent output, moving focus, and spawning the
// sidebar pane next to it.
package pane

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoBackend is returned when no supported pane mechanism is available.
var ErrNoBackend = errors.New("no supported pane backend detected (run inside tmux or iTerm2)")

// DefaultCaptureLines is how much scrollback IsIdle inspects.
const DefaultCaptureLines = 40

// Backend is the set of operations the sidebar performs on the assistant pane.
type Backend interface {
	Name() string
	// SendText types text into the assistant pane and submits it.
	SendText(ctx context.Context, text string) error
	// Capture returns the last lines of the assistant pane.
	Capture(ctx context.Context, lines int) (string, error)
	// FocusOther moves keyboard focus to the assistant pane.
	FocusOther(ctx context.Context) error
	// IsIdle reports whether the assistant is waiting at an empty prompt.
	IsIdle(ctx context.Context) (bool, error)
}

// Spawner creates or reuses the sidebar pane beside the assistant.
type Spawner interface {
	Spawn(ctx context.Context, opts SpawnOptions) error
}

// SpawnOptions configures Spawn.
type SpawnOptions struct {
	Command string // command run in the new pane
	Dir     string // working directory
	Width   int    // columns (tmux) for the new pane, 0 for the backend default
}

// Record pairs the sidebar pane with the assistant pane it serves. It is
// persisted per project so a restarted sidebar finds the same panes.
type Record struct {
	Backend       string    `json:"backend"`
	SidebarPane   string    `json:"sidebarPane"`
	AssistantPane string    `json:"assistantPane"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RecordStore loads and saves the pane record.
type RecordStore interface {
	PaneRecord(ctx context.Context) (Record, error)
	SetPaneRecord(ctx context.Context, rec Record) error
}

// Kind names a backend implementation.
type Kind string

const (
	KindAuto  Kind = "auto"
	KindTmux  Kind = "tmux"
	KindITerm Kind = "iterm"
)

// Detect picks the backend for the current environment. A non-auto preference
// is honoured without probing.
func Detect(preferred Kind, getenv func(string) string) (Kind, error) {
	switch preferred {
	case KindTmux, KindITerm:
		return preferred, nil
	case KindAuto, "":
	default:
		return "", fmt.Errorf("unknown backend %q", preferred)
	}

	if strings.TrimSpace(getenv("TMUX")) != "" {
		return KindTmux, nil
	}
	if getenv("TERM_PROGRAM") == "iTerm.app" || getenv("ITERM_SESSION_ID") != "" {
		return KindITerm, nil
	}
	return "", ErrNoBackend
}

// lastLines keeps the trailing n lines of s.
func lastLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
