// Package prefs persists small user interface preferences such as the colour
// theme and accessibility settings behind a key/value Store.
package prefs

import (
	"context"
	"sync"
)

// Store is a string key/value preference store with change notification.
type Store interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key and notifies subscribers.
	Set(ctx context.Context, key, value string) error
	// OnChange registers fn to be called after every successful Set.
	// The returned function unregisters it.
	OnChange(fn func(key, value string)) (cancel func())
}

// Notifier fans out change notifications. Store implementations embed it.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(key, value string)
}

// OnChange registers fn and returns a function that removes it.
func (n *Notifier) OnChange(fn func(key, value string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(key, value string))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify calls every subscriber with key and value. Subscribers run outside
// the lock and may call OnChange themselves.
func (n *Notifier) Notify(key, value string) {
	n.mu.Lock()
	subs := make([]func(key, value string), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(key, value)
	}
}

// Memory is an in-process Store.
type Memory struct {
	Notifier

	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.Notify(key, value)
	return nil
}
