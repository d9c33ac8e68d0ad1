package doctor

import (
	"context"
	"errors"

	"github.com/colonyops/queuebar/internal/core/pane"
)

// BackendCheck reports which pane backend the sidebar would use.
type BackendCheck struct {
	preferred pane.Kind
	getenv    func(string) string
}

// NewBackendCheck creates a backend detection check.
func NewBackendCheck(preferred pane.Kind, getenv func(string) string) *BackendCheck {
	return &BackendCheck{preferred: preferred, getenv: getenv}
}

func (c *BackendCheck) Name() string {
	return "Pane Backend"
}

func (c *BackendCheck) Run(_ context.Context) Result {
	var items []CheckItem

	kind, err := pane.Detect(c.preferred, c.getenv)
	switch {
	case errors.Is(err, pane.ErrNoBackend):
		items = append(items, fail(string(c.preferred), "not inside tmux or iTerm2; tasks cannot be dispatched"))
	case err != nil:
		items = append(items, fail(string(c.preferred), err.Error()))
	default:
		items = append(items, pass(string(kind), "detected"))
	}

	if id := c.getenv("TMUX_PANE"); id != "" {
		items = append(items, pass("TMUX_PANE", id))
	}

	return Result{Name: c.Name(), Items: items}
}
