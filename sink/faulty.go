package sink

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrInjected is returned by FaultyStore sinks when a Fault has no Err.
var ErrInjected = errors.New("sink: injected fault")

// Fault defines specific failure behavior.
type Fault struct {
	FailOnCreate   bool
	FailAfterBytes int64 // Fail writes that would exceed this many bytes. -1 to disable.
	ShortWrite     bool  // Write up to FailAfterBytes before failing instead of nothing.
	FailOnSync     bool
	FailOnClose    bool
	Err            error
}

// NoFault is a Fault that never fires.
var NoFault = Fault{FailAfterBytes: -1}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyStore is a Store wrapper that injects errors, for testing how
// writers react to failing outputs.
type FaultyStore struct {
	store Store

	mu      sync.Mutex
	rules   map[string]Fault // name substring -> fault
	dflt    Fault
	written map[string]int64
}

// NewFaultyStore wraps store, or a fresh MemoryStore if store is nil.
func NewFaultyStore(store Store) *FaultyStore {
	if store == nil {
		store = NewMemoryStore()
	}
	return &FaultyStore{
		store:   store,
		rules:   make(map[string]Fault),
		dflt:    NoFault,
		written: make(map[string]int64),
	}
}

// SetDefault sets the fault applied to names no rule matches.
func (f *FaultyStore) SetDefault(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dflt = fault
}

// AddRule applies fault to every name containing pattern. When several
// patterns match, the longest wins.
func (f *FaultyStore) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Written returns the number of bytes that reached the sink for name.
func (f *FaultyStore) Written(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[name]
}

func (f *FaultyStore) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	fault, best := f.dflt, -1
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) && len(pattern) > best {
			fault, best = rule, len(pattern)
		}
	}
	return fault
}

// Create implements Store.
func (f *FaultyStore) Create(ctx context.Context, name string) (Sink, error) {
	fault := f.match(name)
	if fault.FailOnCreate {
		return nil, fault.err()
	}

	s, err := f.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.written[name] = 0
	f.mu.Unlock()

	return &faultySink{Sink: s, store: f, name: name, fault: fault}, nil
}

type faultySink struct {
	Sink
	store   *FaultyStore
	name    string
	fault   Fault
	written int64
}

func (s *faultySink) Write(p []byte) (int, error) {
	if s.fault.FailAfterBytes >= 0 && s.written+int64(len(p)) > s.fault.FailAfterBytes {
		if !s.fault.ShortWrite {
			return 0, s.fault.err()
		}
		n, err := s.write(p[:max(s.fault.FailAfterBytes-s.written, 0)])
		if err == nil {
			err = s.fault.err()
		}
		return n, err
	}
	return s.write(p)
}

func (s *faultySink) write(p []byte) (int, error) {
	n, err := s.Sink.Write(p)
	s.written += int64(n)

	s.store.mu.Lock()
	s.store.written[s.name] = s.written
	s.store.mu.Unlock()

	return n, err
}

func (s *faultySink) Sync() error {
	if s.fault.FailOnSync {
		return s.fault.err()
	}
	return s.Sink.Sync()
}

func (s *faultySink) Close() error {
	if s.fault.FailOnClose {
		_ = s.Sink.Close()
		return s.fault.err()
	}
	return s.Sink.Close()
}
