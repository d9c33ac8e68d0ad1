// Package input decodes raw terminal bytes into logical key events.
package input

// Kind identifies a logical key event.
type Kind int

const (
	KindRune Kind = iota
	KindEnter
	KindEscape
	KindBackspace
	KindDelete
	KindUp
	KindDown
	KindLeft
	KindRight
	KindWordLeft
	KindWordRight
	KindHome
	KindEnd
	KindLineStart   // Ctrl-A
	KindLineEnd     // Ctrl-E
	KindKillToStart // Ctrl-U
	KindKillToEnd   // Ctrl-K
	KindKillWord    // Ctrl-W, Alt-Backspace
	KindTab
	KindInterrupt // Ctrl-C
	KindPaste
	KindFocusIn
	KindFocusOut
)

var kindNames = map[Kind]string{
	KindRune:        "rune",
	KindEnter:       "enter",
	KindEscape:      "escape",
	KindBackspace:   "backspace",
	KindDelete:      "delete",
	KindUp:          "up",
	KindDown:        "down",
	KindLeft:        "left",
	KindRight:       "right",
	KindWordLeft:    "word-left",
	KindWordRight:   "word-right",
	KindHome:        "home",
	KindEnd:         "end",
	KindLineStart:   "ctrl+a",
	KindLineEnd:     "ctrl+e",
	KindKillToStart: "ctrl+u",
	KindKillToEnd:   "ctrl+k",
	KindKillWord:    "ctrl+w",
	KindTab:         "tab",
	KindInterrupt:   "ctrl+c",
	KindPaste:       "paste",
	KindFocusIn:     "focus-in",
	KindFocusOut:    "focus-out",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one decoded key event. Rune is set for KindRune; Text for KindPaste.
type Event struct {
	Kind Kind
	Rune rune
	Text string
}

// String renders the event for logs and test failures.
func (e Event) String() string {
	switch e.Kind {
	case KindRune:
		return string(e.Rune)
	case KindPaste:
		return "paste(" + e.Text + ")"
	default:
		return e.Kind.String()
	}
}
