package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TerminalCheck inspects the controlling terminal.
type TerminalCheck struct {
	out    *os.File
	getenv func(string) string
}

// NewTerminalCheck creates a terminal check for out.
func NewTerminalCheck(out *os.File, getenv func(string) string) *TerminalCheck {
	return &TerminalCheck{out: out, getenv: getenv}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if term.IsTerminal(int(c.out.Fd())) {
		item := CheckItem{Label: "tty", Status: StatusPass}
		if w, h, err := term.GetSize(int(c.out.Fd())); err == nil {
			item.Detail = fmt.Sprintf("%dx%d", w, h)
		}
		result.Items = append(result.Items, item)
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "tty",
			Status: StatusWarn,
			Detail: "stdout is not a terminal (the sidebar needs one)",
		})
	}

	profile := termenv.NewOutput(c.out).EnvColorProfile()
	item := CheckItem{Label: "colors", Status: StatusPass, Detail: ProfileName(profile)}
	if profile == termenv.Ascii {
		item.Status = StatusWarn
		item.Detail = "no color support detected"
	}
	result.Items = append(result.Items, item)

	for _, key := range []string{"TERM", "TERM_PROGRAM"} {
		if v := c.getenv(key); v != "" {
			result.Items = append(result.Items, CheckItem{Label: key, Status: StatusPass, Detail: v})
		}
	}

	return result
}

// ProfileName names a termenv color profile.
func ProfileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "256 colors"
	case termenv.ANSI:
		return "16 colors"
	default:
		return "none"
	}
}
