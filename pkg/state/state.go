// Package state persists practice data across app restarts: echo regions per
// (profile, session) and a cache of computed envelope/pitch series per media
// fingerprint.
//
// The production engine is BadgerDB; OpenMemory gives a map-backed engine for
// tests and ephemeral profiles. Both engines serve the same store views:
//
//	db, err := state.Open(state.Options{Dir: "/var/lib/parlo"})
//	...
//	regions := db.Regions()
//	cache := db.Series()
package state

import (
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("state: not found")

// backend is the engine beneath the store views. Implementations must be
// safe for concurrent use.
type backend interface {
	get(key []byte) ([]byte, error) // ErrNotFound when absent
	set(key, value []byte) error
	delete(key []byte) error // no error when absent
	scan(prefix []byte, fn func(key, value []byte) error) error
	close() error
}

// DB is an open state database.
type DB struct {
	b backend
}

// Open opens a Badger-backed DB per opts.
func Open(opts Options) (*DB, error) {
	b, err := openBadger(opts)
	if err != nil {
		return nil, err
	}
	return &DB{b: b}, nil
}

// OpenMemory opens a DB backed by a process-local map. Nothing survives
// Close; intended for tests and ephemeral profiles.
func OpenMemory() *DB {
	return &DB{b: newMemoryBackend()}
}

// Regions returns the echo region store view.
func (d *DB) Regions() *Regions { return &Regions{b: d.b} }

// Series returns the analysis series cache view.
func (d *DB) Series() *SeriesCache { return &SeriesCache{b: d.b} }

// Close releases the underlying engine.
func (d *DB) Close() error { return d.b.close() }
