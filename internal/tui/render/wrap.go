package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Span is one wrapped line as a half-open rune range of the source text.
type Span struct {
	Start, End int
}

// Wrap breaks text into lines of at most width cells, preferring to break
// after a space. A single space that overflows the width stays at the end of
// its line so that every rune offset maps to exactly one line. Empty text
// yields one empty span.
func Wrap(text []rune, width int) []Span {
	width = max(width, 1)
	if len(text) == 0 {
		return []Span{{0, 0}}
	}

	var spans []Span
	start := 0
	for start < len(text) {
		cells := 0
		i := start
		lastBreak := -1
		for i < len(text) {
			rw := runewidth.RuneWidth(text[i])
			if cells+rw > width && i > start {
				break
			}
			cells += rw
			if text[i] == ' ' {
				lastBreak = i + 1
			}
			i++
		}

		if i == len(text) {
			spans = append(spans, Span{start, i})
			break
		}

		end := i
		switch {
		case text[i] == ' ':
			end = i + 1
		case lastBreak > start:
			end = lastBreak
		}
		spans = append(spans, Span{start, end})
		start = end
	}
	return spans
}

// CursorPos maps a rune offset to its wrapped row and cell column. An offset
// on a line boundary belongs to the start of the following line.
func CursorPos(text []rune, spans []Span, cursor int) (row, col int) {
	cursor = min(max(cursor, 0), len(text))
	for i, sp := range spans {
		last := i == len(spans)-1
		if cursor < sp.End || last {
			return i, runewidth.StringWidth(string(text[sp.Start:cursor]))
		}
	}
	return 0, 0
}

// Lines returns the wrapped lines of text as strings.
func Lines(text []rune, width int) []string {
	spans := Wrap(text, width)
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = string(text[sp.Start:sp.End])
	}
	return out
}

// Truncate cuts s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = flatten(s)
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// flatten keeps stored content on one row.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
