//go:build !unix

package tui

import (
	"context"
	"time"
)

// resizePoll is how often the size is re-read where no resize signal exists.
const resizePoll = 500 * time.Millisecond

// Resizes polls the size, since there is no SIGWINCH here.
func (t *Terminal) Resizes(ctx context.Context) <-chan Size {
	ticker := time.NewTicker(resizePoll)
	context.AfterFunc(ctx, ticker.Stop)
	return relaySizes(ctx, ticker.C, t.Size)
}
