package sink

import (
	"context"
	"errors"
	"io"
)

// ErrEmptyName is returned by Store.Create when the sink name is empty.
var ErrEmptyName = errors.New("sink: empty name")

// Sink is a writable byte sink held exclusively by one writer.
type Sink interface {
	io.Writer
	io.Closer
	// Sync commits written data to stable storage where the backend supports it.
	Sync() error
}

// Store creates sinks by name.
type Store interface {
	// Create opens name for writing. Existing content is discarded.
	Create(ctx context.Context, name string) (Sink, error)
}

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, name string) (Sink, error)

// Create implements Store.
func (f StoreFunc) Create(ctx context.Context, name string) (Sink, error) { return f(ctx, name) }

// Nop wraps w as a Sink whose Close and Sync do nothing.
func Nop(w io.Writer) Sink { return nopSink{w} }

type nopSink struct{ io.Writer }

func (nopSink) Close() error { return nil }
func (nopSink) Sync() error  { return nil }
