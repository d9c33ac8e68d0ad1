package executil

import (
	"context"
	"sync"
)

// RecordedCommand is one call seen by a RecordingExecutor.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// RecordingExecutor is an Executor fake for pane backend tests. Replies come
// from Handler when set, otherwise from the Outputs and Errors maps keyed by
// command name ("tmux", "osascript").
type RecordingExecutor struct {
	Outputs map[string][]byte
	Errors  map[string]error
	Handler func(cmd string, args []string) ([]byte, error)

	mu       sync.Mutex
	Commands []RecordedCommand
}

func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.RunDir(ctx, "", cmd, args...)
}

func (e *RecordingExecutor) RunDir(_ context.Context, dir, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	e.Commands = append(e.Commands, RecordedCommand{Dir: dir, Cmd: cmd, Args: args})
	e.mu.Unlock()

	if e.Handler != nil {
		return e.Handler(cmd, args)
	}
	return e.Outputs[cmd], e.Errors[cmd]
}

// Last returns the most recent call, or the zero value.
func (e *RecordingExecutor) Last() RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := len(e.Commands); n > 0 {
		return e.Commands[n-1]
	}
	return RecordedCommand{}
}

// Verbs returns the first argument of every call to cmd, in order. For tmux
// that is the subcommand: split-window, send-keys, select-pane.
func (e *RecordingExecutor) Verbs(cmd string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, c := range e.Commands {
		if c.Cmd == cmd && len(c.Args) > 0 {
			out = append(out, c.Args[0])
		}
	}
	return out
}

// Reset forgets recorded calls.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
