// Package utils holds small helpers shared by the terminal UI.
package utils

import (
	"io"
	"strings"
)

// FrameBuffer collects one frame of terminal output so it reaches the
// terminal in a single write. Open and Close bracket every committed frame,
// typically the synchronized output markers.
//
// A FrameBuffer is owned by the UI loop and is not safe for concurrent use.
type FrameBuffer struct {
	Open  string
	Close string

	b strings.Builder
}

// Begin drops anything buffered and starts a new frame.
func (f *FrameBuffer) Begin() {
	f.b.Reset()
	f.b.WriteString(f.Open)
}

// Add appends parts to the current frame.
func (f *FrameBuffer) Add(parts ...string) {
	for _, p := range parts {
		f.b.WriteString(p)
	}
}

// Len reports the buffered size, including Open.
func (f *FrameBuffer) Len() int { return f.b.Len() }

// Commit closes the frame and writes it to w in one call. The buffer is
// empty afterwards even when the write fails; a torn frame is repainted in
// full by the caller.
func (f *FrameBuffer) Commit(w io.Writer) error {
	if f.b.Len() == 0 {
		return nil
	}
	f.b.WriteString(f.Close)
	_, err := io.WriteString(w, f.b.String())
	f.b.Reset()
	return err
}
