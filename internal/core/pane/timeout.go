package pane

import (
	"context"
	"time"
)

// DefaultTimeout bounds each backend call.
const DefaultTimeout = 2 * time.Second

type timeoutBackend struct {
	Backend
	d time.Duration
}

// WithTimeout bounds every call on b by d so an unresponsive backend cannot
// stall the event loop. A non-positive d returns b unchanged.
func WithTimeout(b Backend, d time.Duration) Backend {
	if d <= 0 {
		return b
	}
	return &timeoutBackend{Backend: b, d: d}
}

func (t *timeoutBackend) SendText(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.Backend.SendText(ctx, text)
}

func (t *timeoutBackend) Capture(ctx context.Context, lines int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.Backend.Capture(ctx, lines)
}

func (t *timeoutBackend) FocusOther(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.Backend.FocusOther(ctx)
}

func (t *timeoutBackend) IsIdle(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.Backend.IsIdle(ctx)
}
