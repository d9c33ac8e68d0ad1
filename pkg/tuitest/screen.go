package tuitest

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// wideTail marks the second cell of a double-width rune.
const wideTail = rune(-1)

// Screen is a minimal virtual terminal that understands the subset of
// sequences the renderer emits: cursor addressing, line/screen erase, SGR
// (ignored) and DEC private modes. It lets tests assert on what a user
// would actually see after a series of writes.
type Screen struct {
	Width, Height int
	Row, Col      int // zero-based cursor position
	CursorVisible bool

	// SyncOpen counts synchronized-output begin markers not yet closed;
	// SyncFrames counts completed begin/end pairs.
	SyncOpen   int
	SyncFrames int

	Modes map[int]bool

	cells   [][]rune
	pending []byte
}

// NewScreen returns a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{Width: width, Height: height, CursorVisible: true, Modes: map[int]bool{}}
	s.clearAll()
	return s
}

func (s *Screen) clearAll() {
	s.cells = make([][]rune, s.Height)
	for i := range s.cells {
		s.cells[i] = blankRow(s.Width)
	}
}

func blankRow(width int) []rune {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// Write interprets p. Sequences split across writes are reassembled.
func (s *Screen) Write(p []byte) (int, error) {
	data := append(s.pending, p...)
	s.pending = nil

	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == 0x1b:
			n, ok := s.escape(data[i:])
			if !ok {
				s.pending = append([]byte(nil), data[i:]...)
				return len(p), nil
			}
			i += n
		case b == '\r':
			s.Col = 0
			i++
		case b == '\n':
			if s.Row < s.Height-1 {
				s.Row++
			}
			i++
		case b < 0x20:
			i++
		default:
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size == 1 && !utf8.FullRune(data[i:]) {
				s.pending = append([]byte(nil), data[i:]...)
				return len(p), nil
			}
			s.put(r)
			i += size
		}
	}
	return len(p), nil
}

func (s *Screen) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.Row < 0 || s.Row >= s.Height || s.Col+w > s.Width {
		s.Col += w
		return
	}
	s.cells[s.Row][s.Col] = r
	if w == 2 {
		s.cells[s.Row][s.Col+1] = wideTail
	}
	s.Col += w
}

// escape consumes one escape sequence. It returns false when the sequence is incomplete.
func (s *Screen) escape(data []byte) (int, bool) {
	if len(data) < 2 {
		return 0, false
	}
	if data[1] != '[' {
		return 2, true
	}
	for j := 2; j < len(data); j++ {
		if data[j] >= 0x40 && data[j] <= 0x7e {
			s.csi(string(data[2:j]), data[j])
			return j + 1, true
		}
	}
	return 0, false
}

func (s *Screen) csi(params string, final byte) {
	private := strings.HasPrefix(params, "?")
	params = strings.TrimPrefix(params, "?")
	args := parseParams(params)
	arg := func(i, def int) int {
		if i < len(args) && args[i] > 0 {
			return args[i]
		}
		return def
	}

	switch final {
	case 'H', 'f':
		s.Row = clamp(arg(0, 1)-1, 0, s.Height-1)
		s.Col = clamp(arg(1, 1)-1, 0, s.Width-1)
	case 'A':
		s.Row = clamp(s.Row-arg(0, 1), 0, s.Height-1)
	case 'B':
		s.Row = clamp(s.Row+arg(0, 1), 0, s.Height-1)
	case 'C':
		s.Col = clamp(s.Col+arg(0, 1), 0, s.Width-1)
	case 'D':
		s.Col = clamp(s.Col-arg(0, 1), 0, s.Width-1)
	case 'G':
		s.Col = clamp(arg(0, 1)-1, 0, s.Width-1)
	case 'K':
		if s.Row < 0 || s.Row >= s.Height {
			return
		}
		switch arg(0, 0) {
		case 0:
			for c := s.Col; c < s.Width; c++ {
				s.cells[s.Row][c] = ' '
			}
		case 1:
			for c := 0; c <= s.Col && c < s.Width; c++ {
				s.cells[s.Row][c] = ' '
			}
		case 2:
			s.cells[s.Row] = blankRow(s.Width)
		}
	case 'J':
		if arg(0, 0) == 2 || arg(0, 0) == 3 {
			s.clearAll()
		}
	case 'h', 'l':
		if !private {
			return
		}
		on := final == 'h'
		for _, mode := range args {
			s.Modes[mode] = on
			switch mode {
			case 25:
				s.CursorVisible = on
			case 2026:
				if on {
					s.SyncOpen++
				} else if s.SyncOpen > 0 {
					s.SyncOpen--
					s.SyncFrames++
				}
			}
		}
	}
}

func parseParams(params string) []int {
	if params == "" {
		return nil
	}
	parts := strings.Split(params, ";")
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Line returns row i with trailing spaces trimmed.
func (s *Screen) Line(i int) string {
	if i < 0 || i >= s.Height {
		return ""
	}
	var b strings.Builder
	for _, r := range s.cells[i] {
		if r == wideTail {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns every row, trimmed.
func (s *Screen) Lines() []string {
	out := make([]string, s.Height)
	for i := range out {
		out[i] = s.Line(i)
	}
	return out
}

// String renders the screen as newline-separated rows without trailing blank rows.
func (s *Screen) String() string {
	return strings.TrimRight(strings.Join(s.Lines(), "\n"), "\n")
}

// Contains reports whether any row contains sub.
func (s *Screen) Contains(sub string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

// FindRow returns the first row containing sub, or -1.
func (s *Screen) FindRow(sub string) int {
	for i, line := range s.Lines() {
		if strings.Contains(line, sub) {
			return i
		}
	}
	return -1
}
