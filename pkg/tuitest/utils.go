// Package tuitest provides testing utilities for the sidebar's raw terminal output.
package tuitest

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace for readable assertions.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// Raw key encodings as a terminal in raw mode delivers them.
var (
	KeyUp        = []byte("\x1b[A")
	KeyDown      = []byte("\x1b[B")
	KeyRight     = []byte("\x1b[C")
	KeyLeft      = []byte("\x1b[D")
	KeyEnter     = []byte("\r")
	KeyBackspace = []byte{0x7f}
	KeyEscape    = []byte{0x1b}
	KeyTab       = []byte("\t")
	FocusIn      = []byte("\x1b[I")
	FocusOut     = []byte("\x1b[O")
)

// Paste wraps text in bracketed-paste markers.
func Paste(text string) []byte {
	return []byte("\x1b[200~" + text + "\x1b[201~")
}
