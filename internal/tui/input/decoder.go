package input

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/colonyops/queuebar/internal/tui/esc"
)

var pasteEnd = []byte(esc.PasteEnd)

const (
	// maxSequence bounds how long an unterminated CSI may grow before it is
	// treated as garbage and dropped.
	maxSequence = 32
	// maxPaste bounds a paste whose end marker never arrives.
	maxPaste = 1 << 20
)

type step int

const (
	stepEmit step = iota
	stepDrop
	stepMore
)

// Decoder turns raw stdin chunks into events. Sequences split across chunks
// are buffered until complete. A lone ESC is ambiguous (it may be the start of
// a sequence whose tail is still in flight), so it stays pending until the
// caller decides no more bytes are coming and calls Flush.
//
// The zero value is ready to use. A Decoder is not safe for concurrent use.
type Decoder struct {
	buf     []byte
	pasting bool
	paste   []byte
	// overflow is set once an open paste passed maxPaste; the rest of it is
	// discarded up to the end marker.
	overflow bool
	// skipping is set after an overlong CSI was dropped; its remaining
	// parameter bytes and final byte are discarded too.
	skipping bool
}

// Feed decodes p together with any bytes left over from earlier calls.
func (d *Decoder) Feed(p []byte) []Event {
	d.buf = append(d.buf, p...)
	var out []Event

	for len(d.buf) > 0 {
		if d.pasting {
			ev, emit, more := d.consumePaste()
			if emit {
				out = append(out, ev)
			}
			if !more {
				break
			}
			continue
		}
		if d.skipping {
			d.buf = d.buf[d.skipCSI(d.buf):]
			continue
		}

		ev, n, st := d.next(d.buf)
		if st == stepMore {
			break
		}
		if st == stepEmit {
			out = append(out, ev)
		}
		d.buf = d.buf[n:]
	}

	if len(d.buf) == 0 {
		d.buf = nil
	}
	return out
}

// Pending reports whether an incomplete sequence is buffered outside a paste.
// Callers arm a short timer and call Flush when it fires.
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0 && !d.pasting
}

// Pasting reports whether a bracketed paste is open.
func (d *Decoder) Pasting() bool {
	return d.pasting
}

// Flush resolves a pending partial sequence: a leading ESC becomes an Escape
// event and the remaining bytes are decoded on their own. Incomplete UTF-8 is
// dropped.
func (d *Decoder) Flush() []Event {
	if !d.Pending() {
		return nil
	}

	rest := d.buf
	d.buf = nil

	if rest[0] != 0x1b {
		// Only a truncated UTF-8 rune can be left here.
		return nil
	}

	out := []Event{{Kind: KindEscape}}
	return append(out, d.Feed(rest[1:])...)
}

// consumePaste moves paste bytes out of buf. It reports an event to emit and
// whether decoding can continue with what is left in buf.
func (d *Decoder) consumePaste() (ev Event, emit bool, more bool) {
	idx := bytes.Index(d.buf, pasteEnd)
	if idx < 0 {
		keep := partialSuffix(d.buf, pasteEnd)
		if !d.overflow {
			d.paste = append(d.paste, d.buf[:len(d.buf)-keep]...)
		}
		d.buf = append([]byte(nil), d.buf[len(d.buf)-keep:]...)

		if !d.overflow && len(d.paste) > maxPaste {
			// Deliver what fits; the paste stays open until its end marker.
			d.overflow = true
			return d.takePaste(), true, false
		}
		return Event{}, false, false
	}

	if !d.overflow {
		d.paste = append(d.paste, d.buf[:idx]...)
	}
	d.buf = d.buf[idx+len(pasteEnd):]
	d.pasting = false
	if d.overflow {
		d.overflow = false
		return Event{}, false, true
	}
	return d.takePaste(), true, true
}

func (d *Decoder) takePaste() Event {
	text := normalizeNewlines(string(d.paste))
	d.paste = nil
	return Event{Kind: KindPaste, Text: text}
}

// skipCSI returns how many bytes of b still belong to a dropped CSI.
func (d *Decoder) skipCSI(b []byte) int {
	for i, c := range b {
		switch {
		case c >= 0x20 && c <= 0x3f:
			continue
		case c >= 0x40 && c <= 0x7e:
			d.skipping = false
			return i + 1
		default:
			d.skipping = false
			return i
		}
	}
	return len(b)
}

// next decodes a single event from the head of b.
func (d *Decoder) next(b []byte) (Event, int, step) {
	c := b[0]

	switch {
	case c == 0x1b:
		return d.escape(b)
	case c == '\r':
		if len(b) > 1 && b[1] == '\n' {
			return Event{Kind: KindEnter}, 2, stepEmit
		}
		return Event{Kind: KindEnter}, 1, stepEmit
	case c == '\n':
		return Event{Kind: KindEnter}, 1, stepEmit
	case c == 0x7f || c == 0x08:
		return Event{Kind: KindBackspace}, 1, stepEmit
	case c < 0x20:
		if k, ok := controlKinds[c]; ok {
			return Event{Kind: k}, 1, stepEmit
		}
		return Event{}, 1, stepDrop
	case c < 0x7f:
		return Event{Kind: KindRune, Rune: rune(c)}, 1, stepEmit
	}

	if !utf8.FullRune(b) {
		return Event{}, 0, stepMore
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return Event{}, size, stepDrop
	}
	return Event{Kind: KindRune, Rune: r}, size, stepEmit
}

var controlKinds = map[byte]Kind{
	0x01: KindLineStart,
	0x02: KindLeft,
	0x03: KindInterrupt,
	0x04: KindDelete,
	0x05: KindLineEnd,
	0x06: KindRight,
	0x09: KindTab,
	0x0b: KindKillToEnd,
	0x0e: KindDown,
	0x10: KindUp,
	0x15: KindKillToStart,
	0x17: KindKillWord,
}

func (d *Decoder) escape(b []byte) (Event, int, step) {
	if len(b) < 2 {
		return Event{}, 0, stepMore
	}

	switch b[1] {
	case '[':
		return d.csi(b)
	case 'O':
		if len(b) < 3 {
			return Event{}, 0, stepMore
		}
		if k, ok := ss3Kinds[b[2]]; ok {
			return Event{Kind: k}, 3, stepEmit
		}
		return Event{}, 3, stepDrop
	case 'b', 'B':
		return Event{Kind: KindWordLeft}, 2, stepEmit
	case 'f', 'F':
		return Event{Kind: KindWordRight}, 2, stepEmit
	case 0x7f, 0x08:
		return Event{Kind: KindKillWord}, 2, stepEmit
	case 0x1b:
		return Event{Kind: KindEscape}, 1, stepEmit
	}

	if b[1] >= 0x20 && b[1] < 0x7f {
		// Alt+key combinations other than word motion are not bound.
		return Event{}, 2, stepDrop
	}
	return Event{Kind: KindEscape}, 1, stepEmit
}

var ss3Kinds = map[byte]Kind{
	'A': KindUp,
	'B': KindDown,
	'C': KindRight,
	'D': KindLeft,
	'H': KindHome,
	'F': KindEnd,
}

func (d *Decoder) csi(b []byte) (Event, int, step) {
	end := -1
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			end = i
			break
		}
		if b[i] < 0x20 {
			// A control byte cannot appear inside a CSI; drop the prefix.
			return Event{}, i, stepDrop
		}
	}
	if end < 0 {
		if len(b) <= maxSequence {
			return Event{}, 0, stepMore
		}
		// Drop ESC [ and every parameter or intermediate byte after it.
		n := 2
		for n < len(b) && b[n] >= 0x20 && b[n] <= 0x3f {
			n++
		}
		d.skipping = n == len(b)
		return Event{}, n, stepDrop
	}

	params := string(b[2:end])
	final := b[end]
	n := end + 1

	switch final {
	case '~':
		switch params {
		case "200":
			d.pasting = true
			return Event{}, n, stepDrop
		case "3":
			return Event{Kind: KindDelete}, n, stepEmit
		case "1", "7":
			return Event{Kind: KindHome}, n, stepEmit
		case "4", "8":
			return Event{Kind: KindEnd}, n, stepEmit
		}
		return Event{}, n, stepDrop
	case 'A', 'B':
		if params != "" && !strings.HasPrefix(params, "1;") && params != "1" {
			return Event{}, n, stepDrop
		}
		if final == 'A' {
			return Event{Kind: KindUp}, n, stepEmit
		}
		return Event{Kind: KindDown}, n, stepEmit
	case 'C', 'D':
		return horizontal(params, final == 'D'), n, stepEmit
	case 'H':
		if params == "" || params == "1" {
			return Event{Kind: KindHome}, n, stepEmit
		}
	case 'F':
		if params == "" || params == "1" {
			return Event{Kind: KindEnd}, n, stepEmit
		}
	case 'I':
		if params == "" {
			return Event{Kind: KindFocusIn}, n, stepEmit
		}
	case 'O':
		if params == "" {
			return Event{Kind: KindFocusOut}, n, stepEmit
		}
	}
	return Event{}, n, stepDrop
}

// horizontal maps left/right with an optional modifier. Alt (3), Meta (9) and
// Ctrl (5) all mean word motion; terminals disagree on which one Option sends.
func horizontal(params string, left bool) Event {
	word := false
	if mod, ok := strings.CutPrefix(params, "1;"); ok {
		switch mod {
		case "3", "5", "9":
			word = true
		}
	}

	switch {
	case word && left:
		return Event{Kind: KindWordLeft}
	case word:
		return Event{Kind: KindWordRight}
	case left:
		return Event{Kind: KindLeft}
	default:
		return Event{Kind: KindRight}
	}
}

// partialSuffix returns the length of the longest proper prefix of marker
// that b ends with.
func partialSuffix(b, marker []byte) int {
	for k := min(len(marker)-1, len(b)); k > 0; k-- {
		if bytes.HasSuffix(b, marker[:k]) {
			return k
		}
	}
	return 0
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
