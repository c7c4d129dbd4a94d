// Package storage persists the small amount of client state that must survive
// process restarts: the bearer token and the serialized session identity.
package storage

import (
	"sort"
	"sync"
)

// Keys used for the persisted session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is a string key-value store with local-storage semantics: reads of
// absent keys report ok=false, removal of absent keys is not an error.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(keys ...string) error
}

// Change describes a key whose value was modified outside of this process.
// An empty New with Removed set means the key was deleted.
type Change struct {
	Key     string
	Old     string
	New     string
	Removed bool
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// diff lists the changes turning before into after, ordered by key.
func diff(before, after map[string]string) []Change {
	var changes []Change
	for k, old := range before {
		if nv, ok := after[k]; !ok {
			changes = append(changes, Change{Key: k, Old: old, Removed: true})
		} else if nv != old {
			changes = append(changes, Change{Key: k, Old: old, New: nv})
		}
	}
	for k, nv := range after {
		if _, ok := before[k]; !ok {
			changes = append(changes, Change{Key: k, New: nv})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}

var _ Store = (*MemoryStore)(nil)
