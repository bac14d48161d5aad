// Package replica provides authority-owned values that every observer can
// read and subscribe to.
//
// Exactly one Authority exists per host process. Only writes carrying that
// token are applied; anything else is rejected without touching the value.
package replica

import "sync"

// Authority is the write capability for replicated values.
// The host creates one at startup and hands it only to code that is allowed
// to mutate gameplay state.
type Authority struct {
	name string
}

// NewAuthority creates a new write capability.
func NewAuthority(name string) *Authority {
	return &Authority{name: name}
}

// String returns the authority's name (for logs).
func (a *Authority) String() string {
	if a == nil {
		return "<none>"
	}
	return a.name
}

// Observer is called after an applied change with the previous and new value.
type Observer[T any] func(old, new T)

// Value is a typed cell written by its owning Authority and read by anyone.
// Safe for concurrent use.
type Value[T comparable] struct {
	owner *Authority

	mu        sync.RWMutex
	v         T
	version   uint64
	nextSub   int
	observers map[int]Observer[T]
}

// NewValue creates a value owned by the given authority.
func NewValue[T comparable](owner *Authority, initial T) *Value[T] {
	return &Value[T]{
		owner:     owner,
		v:         initial,
		observers: make(map[int]Observer[T]),
	}
}

// Get returns the latest authority-written value.
func (r *Value[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.v
}

// Version returns the number of applied changes so far.
func (r *Value[T]) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Set writes v if by is the owning authority.
// Returns false if the write was rejected. Writing the current value is
// accepted but produces no notification.
func (r *Value[T]) Set(by *Authority, v T) bool {
	if by == nil || by != r.owner {
		return false
	}

	r.mu.Lock()
	old := r.v
	if old == v {
		r.mu.Unlock()
		return true
	}
	r.v = v
	r.version++
	observers := make([]Observer[T], 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.mu.Unlock()

	// Notify outside the lock so observers may read the value back
	for _, fn := range observers {
		fn(old, v)
	}
	return true
}

// Subscribe registers fn for change notifications.
// The returned function removes the subscription.
func (r *Value[T]) Subscribe(fn Observer[T]) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.observers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers, id)
			r.mu.Unlock()
		})
	}
}
