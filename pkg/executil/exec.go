// Package executil runs external commands for pane backends and lifecycle hooks.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// stderrCap bounds how much of a failing command's stderr ends up in an error.
const stderrCap = 500

// cappedBuffer keeps the first max bytes written to it and drops the
// rest. Writes always report full success so the child never sees EPIPE.
type cappedBuffer struct {
	bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) message() string {
	return strings.TrimSpace(b.String())
}

// Script is a shell snippet run through `sh -c`.
type Script struct {
	Source string
	// Dir is the working directory. Empty inherits the caller's.
	Dir string
	// Env is appended to the current environment as KEY=VALUE pairs.
	Env []string
}

// Run executes the script and discards stdout. A failure carries the first
// stderrCap bytes of stderr and wraps the *exec.ExitError.
func (s Script) Run(ctx context.Context) error {
	c := exec.CommandContext(ctx, "sh", "-c", s.Source)
	c.Dir = s.Dir
	if len(s.Env) > 0 {
		c.Env = append(os.Environ(), s.Env...)
	}

	stderr := &cappedBuffer{max: stderrCap}
	c.Stdout = io.Discard
	c.Stderr = stderr

	if err := c.Run(); err != nil {
		if msg := stderr.message(); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

// Executor runs external commands and returns their stdout.
type Executor interface {
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error)
}

// RealExecutor runs commands on the host.
type RealExecutor struct{}

func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.RunDir(ctx, "", cmd, args...)
}

// RunDir runs cmd in dir. Stderr never reaches the returned output; it is
// folded into the error instead so tmux and osascript warnings cannot corrupt
// captured pane text.
func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Dir = dir
	stderr := &cappedBuffer{max: stderrCap}
	c.Stderr = stderr

	out, err := c.Output()
	if err == nil {
		return out, nil
	}
	if msg := stderr.message(); msg != "" {
		return out, fmt.Errorf("exec %s: %s: %w", cmd, msg, err)
	}
	return out, fmt.Errorf("exec %s: %w", cmd, err)
}
