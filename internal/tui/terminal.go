package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/colonyops/queuebar/internal/tui/esc"
)

// ErrNotTerminal is returned when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("not a terminal")

// Terminal is a raw-mode session on the controlling terminal.
type Terminal struct {
	in    *os.File
	out   *os.File
	state *term.State
}

// OpenTerminal puts in into raw mode and switches out to the alternate
// screen.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) || !term.IsTerminal(int(out.Fd())) {
		return nil, fmt.Errorf("failed to enter raw mode: %w", ErrNotTerminal)
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	t := &Terminal{in: in, out: out, state: state}
	if _, err := io.WriteString(out, esc.Enter); err != nil {
		_ = term.Restore(fd, state)
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	return t, nil
}

// Write sends p to the terminal.
func (t *Terminal) Write(p []byte) (int, error) { return t.out.Write(p) }

// Size queries the current size.
func (t *Terminal) Size() (Size, error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return Size{}, fmt.Errorf("terminal size: %w", err)
	}
	return Size{Width: w, Height: h}, nil
}

// Restore leaves the alternate screen and restores the original modes. Safe
// to call more than once.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	_, _ = io.WriteString(t.out, esc.Leave)
	err := term.Restore(int(t.in.Fd()), t.state)
	t.state = nil
	return err
}

// Input streams stdin chunks until ctx is done or the read fails. The reader
// goroutine may outlive ctx while blocked in Read; it exits on the next byte
// or when stdin closes.
func (t *Terminal) Input(ctx context.Context) <-chan []byte {
	ch := make(chan []byte)
	go func() {
		defer close(ch)
		buf := make([]byte, 4096)
		for {
			n, err := t.in.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case ch <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// relaySizes re-queries the size each time tick fires and forwards it when
// it changed. The channel holds one value; a newer size replaces an unread
// one.
func relaySizes[T any](ctx context.Context, tick <-chan T, size func() (Size, error)) <-chan Size {
	ch := make(chan Size, 1)
	go func() {
		var last Size
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				sz, err := size()
				if err != nil || sz == last {
					continue
				}
				last = sz
				// only the latest size matters
				select {
				case <-ch:
				default:
				}
				ch <- sz
			}
		}
	}()
	return ch
}
