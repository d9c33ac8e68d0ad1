// Package terminal infers the assistant's state from captured pane output.
package terminal

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultGlyphs are the prompt glyphs the assistant shows when waiting for
// input.
var DefaultGlyphs = []string{">", "❯"}

// DefaultBusyMarkers appear in the status area while the assistant works.
var DefaultBusyMarkers = []string{"esc to interrupt", "ctrl+c to interrupt"}

// DefaultScanLines is how many trailing non-blank lines are inspected.
const DefaultScanLines = 5

// boxRunes frame the prompt input area and are ignored when matching.
const boxRunes = "│┃|╭╮╰╯─━"

// Detector matches the idle prompt in captured output.
type Detector struct {
	Glyphs      []string
	BusyMarkers []string
	ScanLines   int
}

// NewDetector returns a Detector using glyphs, or DefaultGlyphs when empty.
func NewDetector(glyphs ...string) *Detector {
	if len(glyphs) == 0 {
		glyphs = DefaultGlyphs
	}
	return &Detector{
		Glyphs:      glyphs,
		BusyMarkers: DefaultBusyMarkers,
		ScanLines:   DefaultScanLines,
	}
}

// IsIdlePrompt reports whether the tail of content shows an empty prompt: a
// line holding nothing but a prompt glyph and trailing whitespace, with no busy
// marker in the inspected lines.
func (d *Detector) IsIdlePrompt(content string) bool {
	tail := lastLines(ansi.Strip(content), d.ScanLines)

	for _, line := range tail {
		lower := strings.ToLower(line)
		for _, m := range d.BusyMarkers {
			if strings.Contains(lower, m) {
				return false
			}
		}
	}

	for _, line := range tail {
		if d.isPromptLine(line) {
			return true
		}
	}
	return false
}

func (d *Detector) isPromptLine(line string) bool {
	line = strings.TrimFunc(line, func(r rune) bool {
		return strings.ContainsRune(boxRunes, r)
	})
	line = strings.TrimSpace(line)
	for _, g := range d.Glyphs {
		if line == g {
			return true
		}
	}
	return false
}

// lastLines returns up to n trailing lines that are not blank.
func lastLines(content string, n int) []string {
	if n <= 0 {
		n = DefaultScanLines
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	out := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(out) < n; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		out = append(out, lines[i])
	}
	return out
}
