//go:build unix

package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Resizes re-queries the size on every SIGWINCH.
func (t *Terminal) Resizes(ctx context.Context) <-chan Size {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	context.AfterFunc(ctx, func() { signal.Stop(sig) })
	return relaySizes(ctx, sig, t.Size)
}
