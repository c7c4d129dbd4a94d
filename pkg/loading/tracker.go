// Package loading tracks named busy flags so that independent in-flight
// operations can report progress without colliding.
package loading

import (
	"sort"
	"sync"

	"github.com/aretw0/introspection"
)

// Tracker is a registry of named busy flags. Unknown keys are idle.
// Flags for different keys never interact; concurrent writers to the same key
// race with last-write-wins semantics.
type Tracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{flags: make(map[string]bool)}
}

// SetFlag upserts the busy state of key.
func (t *Tracker) SetFlag(key string, busy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flags[key] = busy
}

// IsBusy reports the last state written for key, false if never set.
func (t *Tracker) IsBusy(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.flags[key]
}

// AnyBusy reports whether at least one key is busy.
func (t *Tracker) AnyBusy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, busy := range t.flags {
		if busy {
			return true
		}
	}
	return false
}

// AnyOf reports whether any of the given keys is busy.
func (t *Tracker) AnyOf(keys ...string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, k := range keys {
		if t.flags[k] {
			return true
		}
	}
	return false
}

// Track marks key busy for the duration of fn. The flag is cleared even if fn panics.
func (t *Tracker) Track(key string, fn func() error) error {
	t.SetFlag(key, true)
	defer t.SetFlag(key, false)
	return fn()
}

// TrackerState is the introspection view of a Tracker.
type TrackerState struct {
	Busy []string `json:"busy"`
	Keys int      `json:"keys"`
}

// State implements introspection.Introspectable.
func (t *Tracker) State() any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	busy := make([]string, 0)
	for k, v := range t.flags {
		if v {
			busy = append(busy, k)
		}
	}
	sort.Strings(busy)
	return TrackerState{Busy: busy, Keys: len(t.flags)}
}

// ComponentType implements introspection.Component.
func (t *Tracker) ComponentType() string {
	return "loading-tracker"
}

var _ introspection.Introspectable = (*Tracker)(nil)
var _ introspection.Component = (*Tracker)(nil)
