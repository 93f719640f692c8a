// Package theme resolves the effective light/dark presentation from the
// user's explicit choice and the live system preference signal.
package theme

import (
	"sync"
	"sync/atomic"
)

// Theme is the user-facing theme choice.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
	Auto  Theme = "auto"
)

// Valid reports whether t is one of the supported choices.
func (t Theme) Valid() bool {
	switch t {
	case Light, Dark, Auto:
		return true
	}
	return false
}

// SystemSignal delivers the live "system prefers dark" flag. Subscribe
// returns an unsubscribe function for teardown.
type SystemSignal interface {
	PrefersDark() bool
	Subscribe(fn func(prefersDark bool)) (unsubscribe func())
}

// Resolver derives the effective theme. Auto resolves at read time against
// the last value the signal delivered; readers never see the raw choice and
// the system flag conflated.
type Resolver struct {
	choice      func() Theme
	prefersDark atomic.Bool
	unsubscribe func()
}

// NewResolver subscribes to the signal once. choice supplies the user's
// current selection on every read; a nil choice behaves as Auto.
func NewResolver(choice func() Theme, signal SystemSignal) *Resolver {
	if choice == nil {
		choice = func() Theme { return Auto }
	}
	r := &Resolver{choice: choice}
	if signal != nil {
		r.prefersDark.Store(signal.PrefersDark())
		r.unsubscribe = signal.Subscribe(func(v bool) { r.prefersDark.Store(v) })
	}
	return r
}

// Resolved returns Light or Dark, never Auto.
func (r *Resolver) Resolved() Theme {
	switch r.choice() {
	case Dark:
		return Dark
	case Light:
		return Light
	default:
		if r.prefersDark.Load() {
			return Dark
		}
		return Light
	}
}

// IsDark is a convenience over Resolved.
func (r *Resolver) IsDark() bool {
	return r.Resolved() == Dark
}

// Close detaches the resolver from the signal.
func (r *Resolver) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// BoolSignal is an in-process SystemSignal that external integrations (or
// tests) drive through Set.
type BoolSignal struct {
	mu     sync.Mutex
	value  bool
	nextID int
	subs   map[int]func(bool)
}

// NewBoolSignal builds a signal with an initial value.
func NewBoolSignal(prefersDark bool) *BoolSignal {
	return &BoolSignal{value: prefersDark, subs: make(map[int]func(bool))}
}

// PrefersDark returns the current flag.
func (s *BoolSignal) PrefersDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set atomically replaces the flag and notifies subscribers.
func (s *BoolSignal) Set(prefersDark bool) {
	s.mu.Lock()
	s.value = prefersDark
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(prefersDark)
	}
}

// Subscribe registers fn and returns its unsubscribe function.
func (s *BoolSignal) Subscribe(fn func(bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
