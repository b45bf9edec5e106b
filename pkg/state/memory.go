package state

import (
	"bytes"
	"sort"
	"sync"
)

// memoryBackend is a map-based engine. Scans iterate in key order to match
// Badger's lexicographic iteration.
type memoryBackend struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{m: make(map[string][]byte)}
}

func (b *memoryBackend) get(key []byte) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	val, ok := b.m[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (b *memoryBackend) set(key, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	b.mu.Lock()
	b.m[string(key)] = stored
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) delete(key []byte) error {
	b.mu.Lock()
	delete(b.m, string(key))
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) scan(prefix []byte, fn func(key, value []byte) error) error {
	b.mu.RLock()
	keys := make([]string, 0, len(b.m))
	for k := range b.m {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	entries := make([][2][]byte, 0, len(keys))
	for _, k := range keys {
		v := b.m[k]
		val := make([]byte, len(v))
		copy(val, v)
		entries = append(entries, [2][]byte{[]byte(k), val})
	}
	b.mu.RUnlock()

	for _, e := range entries {
		if err := fn(e[0], e[1]); err != nil {
			return err
		}
	}
	return nil
}

func (b *memoryBackend) close() error {
	b.mu.Lock()
	b.m = nil
	b.mu.Unlock()
	return nil
}
