// Package esc names the control sequences the sidebar writes, on top of
// charmbracelet/x/ansi.
package esc

import "github.com/charmbracelet/x/ansi"

// Frame markers. Terminals implementing synchronized output (mode 2026) apply
// everything between them at once; others ignore the mode.
const (
	SyncBegin = ansi.SetModeSynchronizedOutput
	SyncEnd   = ansi.ResetModeSynchronizedOutput
)

const (
	HideCursor = ansi.HideCursor
	ShowCursor = ansi.ShowCursor
	ClearLine  = ansi.EraseEntireLine
	ClearToEOL = ansi.EraseLineRight
	Reset      = ansi.ResetStyle
)

// Bracketed paste markers as reported by the terminal.
const (
	PasteStart = ansi.BracketedPasteStart
	PasteEnd   = ansi.BracketedPasteEnd
)

// cursor shapes for DECSCUSR
const (
	cursorDefault = 0
	cursorBar     = 5
)

// Enter prepares the terminal for the sidebar: alternate screen, bracketed
// paste, focus reporting, no autowrap so a full-width row cannot scroll, a
// hidden bar cursor and a cleared screen. Leave undoes it.
var (
	Enter = ansi.SetModeAltScreenSaveCursor +
		ansi.SetModeBracketedPaste +
		ansi.SetModeFocusEvent +
		ansi.ResetModeAutoWrap +
		ansi.SetCursorStyle(cursorBar) +
		ansi.HideCursor +
		ansi.EraseEntireScreen

	Leave = ansi.ResetStyle +
		ansi.ShowCursor +
		ansi.SetCursorStyle(cursorDefault) +
		ansi.SetModeAutoWrap +
		ansi.ResetModeFocusEvent +
		ansi.ResetModeBracketedPaste +
		ansi.ResetModeAltScreenSaveCursor
)

// MoveTo positions the cursor at a zero-based row and column.
func MoveTo(row, col int) string {
	return ansi.CursorPosition(max(col, 0)+1, max(row, 0)+1)
}
