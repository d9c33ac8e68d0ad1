package pane

import (
	"github.com/colonyops/queuebar/internal/core/terminal"
	"github.com/colonyops/queuebar/pkg/executil"
)

// Pane is a backend that can also spawn the sidebar.
type Pane interface {
	Backend
	Spawner
}

// New constructs the backend of the given kind.
func New(kind Kind, exec executil.Executor, records RecordStore, detector *terminal.Detector, getenv func(string) string) (Pane, error) {
	switch kind {
	case KindTmux:
		return NewTmux(exec, records, detector, getenv("TMUX_PANE")), nil
	case KindITerm:
		return NewITerm(exec, records, detector), nil
	default:
		return nil, ErrNoBackend
	}
}
