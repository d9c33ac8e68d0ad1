package pane

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/queuebar/internal/core/terminal"
	"github.com/colonyops/queuebar/pkg/executil"
	"github.com/colonyops/queuebar/pkg/tmpl"
)

// iTerm sessions within the current tab. The assistant owns the first
// session; the sidebar is split off as the second.
const (
	itermAssistantSession = 1
	itermSidebarSession   = 2
)

// ITerm is the iTerm2 scripting-bridge backend, driven through osascript.
type ITerm struct {
	exec     executil.Executor
	records  RecordStore
	detector *terminal.Detector
	now      func() time.Time
}

// NewITerm creates an iTerm2 backend. records may be nil.
func NewITerm(exec executil.Executor, records RecordStore, detector *terminal.Detector) *ITerm {
	if detector == nil {
		detector = terminal.NewDetector()
	}
	return &ITerm{exec: exec, records: records, detector: detector, now: time.Now}
}

// Name returns "iterm".
func (i *ITerm) Name() string { return string(KindITerm) }

func (i *ITerm) run(ctx context.Context, script string) (string, error) {
	out, err := i.exec.Run(ctx, "osascript", "-e", script)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// tab wraps body in the tell blocks addressing the current tab.
func tab(body string) string {
	return `tell application "iTerm2"
	tell current window
		tell current tab
			` + body + `
		end tell
	end tell
end tell`
}

func session(n int, body string) string {
	return tab(fmt.Sprintf("tell session %d to %s", n, body))
}

// SendText writes text into the assistant session followed by a newline.
func (i *ITerm) SendText(ctx context.Context, text string) error {
	if _, err := i.run(ctx, session(itermAssistantSession, "write text "+quote(text))); err != nil {
		return fmt.Errorf("iterm write text: %w", err)
	}
	return nil
}

// Capture returns the last lines of the assistant session's contents.
func (i *ITerm) Capture(ctx context.Context, lines int) (string, error) {
	out, err := i.run(ctx, session(itermAssistantSession, "get contents"))
	if err != nil {
		return "", fmt.Errorf("iterm get contents: %w", err)
	}
	return lastLines(out, lines), nil
}

// FocusOther selects the assistant session.
func (i *ITerm) FocusOther(ctx context.Context) error {
	if _, err := i.run(ctx, session(itermAssistantSession, "select")); err != nil {
		return fmt.Errorf("iterm select: %w", err)
	}
	return nil
}

// IsIdle captures the assistant session and matches the idle prompt.
func (i *ITerm) IsIdle(ctx context.Context) (bool, error) {
	content, err := i.Capture(ctx, DefaultCaptureLines)
	if err != nil {
		return false, err
	}
	return i.detector.IsIdlePrompt(content), nil
}

// Spawn selects the sidebar session when the tab already has one, otherwise
// splits the assistant session vertically and starts the command in the new
// session.
func (i *ITerm) Spawn(ctx context.Context, opts SpawnOptions) error {
	count, err := i.run(ctx, tab("count sessions"))
	if err != nil {
		return fmt.Errorf("iterm count sessions: %w", err)
	}

	if strings.TrimSpace(count) != "1" {
		if _, err := i.run(ctx, session(itermSidebarSession, "select")); err != nil {
			return fmt.Errorf("iterm select: %w", err)
		}
		return nil
	}

	command := opts.Command
	if opts.Dir != "" {
		command = "cd " + tmpl.ShellQuote(opts.Dir) + " && " + command
	}

	script := tab(fmt.Sprintf(`tell session %d
				set sidebar to (split vertically with default profile)
			end tell
			tell sidebar to write text %s`, itermAssistantSession, quote(command)))
	if _, err := i.run(ctx, script); err != nil {
		return fmt.Errorf("iterm split: %w", err)
	}

	if i.records == nil {
		return nil
	}
	return i.records.SetPaneRecord(ctx, Record{
		Backend:       i.Name(),
		SidebarPane:   fmt.Sprintf("session %d", itermSidebarSession),
		AssistantPane: fmt.Sprintf("session %d", itermAssistantSession),
		CreatedAt:     i.now(),
	})
}

// quote renders s as an AppleScript string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
