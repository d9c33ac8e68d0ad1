package kv

import (
	"context"
	"errors"
)

// Doc is a typed handle on one key of a KV store.
type Doc[T any] struct {
	store KV
	key   string
}

// Bind returns the document stored under key.
func Bind[T any](store KV, key string) Doc[T] {
	return Doc[T]{store: store, key: key}
}

// Key returns the bound key.
func (d Doc[T]) Key() string { return d.key }

// Load decodes the document. A missing document returns ErrNotFound.
func (d Doc[T]) Load(ctx context.Context) (T, error) {
	var v T
	err := d.store.Get(ctx, d.key, &v)
	return v, err
}

// LoadOr returns def when the document has never been written.
func (d Doc[T]) LoadOr(ctx context.Context, def T) (T, error) {
	v, err := d.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// Save replaces the document.
func (d Doc[T]) Save(ctx context.Context, v T) error {
	return d.store.Set(ctx, d.key, v)
}

// Clear removes the document. Clearing a missing document is not an error.
func (d Doc[T]) Clear(ctx context.Context) error {
	err := d.store.Delete(ctx, d.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
