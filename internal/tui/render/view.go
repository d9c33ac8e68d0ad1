// Package render turns sidebar state into terminal frames. Every frame is a
// complete redraw wrapped in synchronized output; while text is being edited
// only the input rows are repainted.
package render

import (
	"time"

	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/todo"
)

// Section identifies a selectable list.
type Section int

const (
	SectionQueue Section = iota
	SectionDone
)

// Mode is the input mode shown by the renderer.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeEdit
)

// Layout constants.
const (
	// FooterRows is the fixed footer: a hint/flash line and a metrics line.
	FooterRows = 2
	// Margin is the number of columns kept free on the right edge.
	Margin = 1
	// maxTodoRows caps the assistant todo block.
	maxTodoRows = 6
)

// View is everything the renderer needs for one frame.
type View struct {
	Width, Height int
	Focused       bool
	Mode          Mode

	Active  *task.Active
	Done    []task.Done
	Queue   []task.Queued // display order
	Todos   []todo.Item
	Metrics *task.Metrics

	Section      Section
	Selected     int
	DoneSelected int
	FocusActive  bool // Tab: emphasize the active block instead of the queue

	Input  []rune
	Cursor int

	Flash       string
	ShowTodos   bool
	ShowMetrics bool
	Now         time.Time
}

// Editing reports whether an input block is shown.
func (v View) Editing() bool { return v.Mode != ModeNormal }
