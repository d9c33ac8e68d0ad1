package pane

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/queuebar/internal/core/terminal"
	"github.com/colonyops/queuebar/pkg/executil"
	"github.com/rs/zerolog/log"
)

// lastPaneTarget is tmux's alias for the previously active pane.
const lastPaneTarget = "{last}"

// Tmux is the terminal-multiplexer backend.
type Tmux struct {
	exec     executil.Executor
	records  RecordStore
	detector *terminal.Detector
	self     string // $TMUX_PANE of this process
	now      func() time.Time
}

// NewTmux creates a tmux backend. self is the pane this process runs in.
func NewTmux(exec executil.Executor, records RecordStore, detector *terminal.Detector, self string) *Tmux {
	if detector == nil {
		detector = terminal.NewDetector()
	}
	return &Tmux{
		exec:     exec,
		records:  records,
		detector: detector,
		self:     self,
		now:      time.Now,
	}
}

// Name returns "tmux".
func (t *Tmux) Name() string { return string(KindTmux) }

// target resolves the assistant pane: the recorded one when it still exists,
// otherwise tmux's last active pane.
func (t *Tmux) target(ctx context.Context) string {
	rec, err := t.records.PaneRecord(ctx)
	if err != nil || rec.AssistantPane == "" || rec.AssistantPane == t.self {
		return lastPaneTarget
	}
	if !t.paneExists(ctx, rec.AssistantPane) {
		log.Debug().Str("pane", rec.AssistantPane).Msg("recorded assistant pane is gone")
		return lastPaneTarget
	}
	return rec.AssistantPane
}

func (t *Tmux) paneExists(ctx context.Context, id string) bool {
	out, err := t.exec.Run(ctx, "tmux", "display-message", "-p", "-t", id, "#{pane_id}")
	return err == nil && strings.TrimSpace(string(out)) == id
}

// SendText types text literally into the assistant pane, then presses Enter.
// The "--" keeps text such as "- fix the parser" from parsing as flags.
func (t *Tmux) SendText(ctx context.Context, text string) error {
	target := t.target(ctx)
	if _, err := t.exec.Run(ctx, "tmux", "send-keys", "-t", target, "-l", "--", text); err != nil {
		return fmt.Errorf("tmux send-keys: %w", err)
	}
	if _, err := t.exec.Run(ctx, "tmux", "send-keys", "-t", target, "Enter"); err != nil {
		return fmt.Errorf("tmux send-keys enter: %w", err)
	}
	return nil
}

// Capture returns the last lines of the assistant pane with wrapped lines joined.
func (t *Tmux) Capture(ctx context.Context, lines int) (string, error) {
	out, err := t.exec.Run(ctx, "tmux", "capture-pane", "-p", "-J", "-t", t.target(ctx), "-S", "-"+strconv.Itoa(lines))
	if err != nil {
		return "", fmt.Errorf("tmux capture-pane: %w", err)
	}
	return lastLines(string(out), lines), nil
}

// FocusOther selects the assistant pane.
func (t *Tmux) FocusOther(ctx context.Context) error {
	if _, err := t.exec.Run(ctx, "tmux", "select-pane", "-t", t.target(ctx)); err != nil {
		return fmt.Errorf("tmux select-pane: %w", err)
	}
	return nil
}

// IsIdle captures the assistant pane and matches the idle prompt.
func (t *Tmux) IsIdle(ctx context.Context) (bool, error) {
	content, err := t.Capture(ctx, DefaultCaptureLines)
	if err != nil {
		return false, err
	}
	return t.detector.IsIdlePrompt(content), nil
}

// Spawn reuses the recorded sidebar pane when it still exists, otherwise
// splits the current pane horizontally and records the pair.
func (t *Tmux) Spawn(ctx context.Context, opts SpawnOptions) error {
	rec, err := t.records.PaneRecord(ctx)
	if err == nil && rec.SidebarPane != "" && t.paneExists(ctx, rec.SidebarPane) {
		log.Debug().Str("pane", rec.SidebarPane).Msg("reusing sidebar pane")
		if _, err := t.exec.Run(ctx, "tmux", "select-pane", "-t", rec.SidebarPane); err != nil {
			return fmt.Errorf("tmux select-pane: %w", err)
		}
		return nil
	}

	if t.self == "" {
		return errors.New("tmux: TMUX_PANE is not set")
	}

	args := []string{"split-window", "-h", "-t", t.self, "-P", "-F", "#{pane_id}"}
	if opts.Width > 0 {
		args = append(args, "-l", strconv.Itoa(opts.Width))
	}
	if opts.Dir != "" {
		args = append(args, "-c", opts.Dir)
	}
	if opts.Command != "" {
		args = append(args, opts.Command)
	}

	log.Debug().Strs("args", args).Msg("executing tmux split-window")
	out, err := t.exec.Run(ctx, "tmux", args...)
	if err != nil {
		return fmt.Errorf("tmux split-window: %w", err)
	}

	id := strings.TrimSpace(string(out))
	if id == "" {
		return errors.New("tmux split-window: no pane id returned")
	}

	return t.records.SetPaneRecord(ctx, Record{
		Backend:       t.Name(),
		SidebarPane:   id,
		AssistantPane: t.self,
		CreatedAt:     t.now(),
	})
}
