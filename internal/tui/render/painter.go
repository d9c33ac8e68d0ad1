package render

import (
	"io"

	"github.com/colonyops/queuebar/internal/core/styles"
	"github.com/colonyops/queuebar/internal/tui/esc"
	"github.com/colonyops/queuebar/pkg/utils"
)

// Painter writes frames to a terminal. Each paint is buffered and flushed in
// a single write bracketed by synchronized output markers.
type Painter struct {
	out   io.Writer
	theme styles.Theme
	buf   utils.FrameBuffer

	last  Frame
	valid bool
}

// NewPainter returns a painter writing to out.
func NewPainter(out io.Writer, theme styles.Theme) *Painter {
	return &Painter{
		out:   out,
		theme: theme,
		buf:   utils.FrameBuffer{Open: esc.SyncBegin + esc.HideCursor, Close: esc.SyncEnd},
	}
}

// SetTheme replaces the theme and forces the next paint to be full.
func (p *Painter) SetTheme(theme styles.Theme) {
	p.theme = theme
	p.valid = false
}

// Invalidate forces the next paint to be full.
func (p *Painter) Invalidate() { p.valid = false }

// Last returns the most recently painted frame.
func (p *Painter) Last() Frame { return p.last }

// Full redraws every row.
func (p *Painter) Full(v View) error {
	f := Build(v, p.theme)

	p.buf.Begin()
	for i, line := range f.Lines {
		p.buf.Add(esc.MoveTo(i, 0), line, esc.Reset, esc.ClearToEOL)
	}
	if f.InputTop >= 0 {
		p.buf.Add(esc.MoveTo(f.CursorRow, f.CursorCol), esc.ShowCursor)
	}

	p.last = f
	p.valid = true
	return p.buf.Commit(p.out)
}

// Input repaints only the input rows when the edit buffer changed. It falls
// back to a full frame whenever the rest of the layout would move: no
// previous frame, geometry change, or an input block that no longer fits
// below the content.
func (p *Painter) Input(v View) error {
	last := p.last
	if !p.valid || !v.Editing() || last.InputTop < 0 ||
		last.Width != v.Width || last.Height != v.Height {
		return p.Full(v)
	}

	st := p.theme.For(v.Focused)
	lines, row, col := inputLines(v, st, contentWidth(v.Width))
	if last.InputTop+len(lines) > last.InputLimit ||
		(last.Trimmed && len(lines) != last.InputRows) {
		return p.Full(v)
	}

	cw := contentWidth(v.Width)
	p.buf.Begin()
	for i, line := range lines {
		p.buf.Add(esc.MoveTo(last.InputTop+i, 0), line, esc.Reset, esc.ClearToEOL)
	}
	for i := len(lines); i < last.InputRows; i++ {
		p.buf.Add(esc.MoveTo(last.InputTop+i, 0), esc.ClearLine)
	}
	cursorRow, cursorCol := last.InputTop+row, col+inputPrefixWidth
	p.buf.Add(esc.MoveTo(cursorRow, cursorCol), esc.ShowCursor)

	// keep the cached frame in step with the screen
	rows := append([]string(nil), last.Lines...)
	for i := range max(len(lines), last.InputRows) {
		r := last.InputTop + i
		if r >= len(rows) {
			break
		}
		rows[r] = ""
		if i < len(lines) {
			rows[r] = truncateStyled(lines[i], cw)
		}
	}
	p.last.Lines = rows
	p.last.InputRows = len(lines)
	p.last.CursorRow, p.last.CursorCol = cursorRow, cursorCol
	return p.buf.Commit(p.out)
}
