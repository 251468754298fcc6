package sink

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]*bytes.Buffer
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]*bytes.Buffer),
	}
}

// Create creates or truncates the named blob.
func (m *MemoryStore) Create(_ context.Context, name string) (Sink, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := new(bytes.Buffer)
	m.blobs[name] = buf
	return &memorySink{store: m, buf: buf}, nil
}

// Bytes returns a copy of everything written to name so far.
func (m *MemoryStore) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buf, ok := m.blobs[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(buf.Bytes()), true
}

// Names returns the names of all blobs in sorted order.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var errClosed = errors.New("sink: write to closed sink")

// memorySink implements Sink for in-memory writes.
type memorySink struct {
	store  *MemoryStore
	buf    *bytes.Buffer
	closed bool
}

func (s *memorySink) Write(p []byte) (int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.closed {
		return 0, errClosed
	}
	return s.buf.Write(p)
}

func (s *memorySink) Close() error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.closed = true
	return nil
}

func (s *memorySink) Sync() error {
	return nil
}
