// Package index provides the in-memory hash table implementation for the
// ignite key-value store: all keys live in memory for O(1) lookup while the
// values themselves stay on disk in segment files, the core Bitcask trade
// that lets a store grow well past available RAM.
package index

import (
	"context"
	stdErrors "errors"

	"github.com/ignitedb/ignite/pkg/errors"
)

var (
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// New creates and initializes a new Index instance configured according to
// the provided parameters. The returned Index is immediately ready for
// concurrent use.
func New(ctx context.Context, config *Config) (*Index, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config")
	}

	return &Index{
		log:     config.Logger,
		dataDir: config.DataDir,
		entries: make(map[string]Location, 2048),
	}, nil
}

// Lookup returns the Location of the current value for key, and whether the
// key is present. A key with no entry — never written, or removed — reports
// ok=false; callers map that to the wire-stable NonExistentKey error rather
// than index handling it directly, since "not found" isn't itself a fault.
func (idx *Index) Lookup(key string) (Location, bool, error) {
	if idx.closed.Load() {
		return Location{}, false, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	loc, ok := idx.entries[key]
	return loc, ok, nil
}

// Upsert records or replaces the Location for key, representing a Set
// having been durably appended to the active segment. It is the index's
// only mutation for a successful write, matching spec.md §4.C's rule that
// the index is updated only after the corresponding record has been
// persisted.
func (idx *Index) Upsert(key string, loc Location) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries[key] = loc
	return nil
}

// Erase removes key's entry entirely, representing a Rm having been
// durably appended. It reports whether the key was present beforehand so
// callers can distinguish "removed a live key" from "key was already
// absent" without a separate Lookup.
func (idx *Index) Erase(key string) (bool, error) {
	if idx.closed.Load() {
		return false, ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, existed := idx.entries[key]
	delete(idx.entries, key)
	return existed, nil
}

// Len returns the number of live keys currently tracked.
func (idx *Index) Len() (int, error) {
	if idx.closed.Load() {
		return 0, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries), nil
}

// Snapshot returns a copy of every live key/Location pair, used by the
// compactor to decide what survives a fold without holding the index lock
// for the duration of the fold itself.
func (idx *Index) Snapshot() (map[string]Location, error) {
	if idx.closed.Load() {
		return nil, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snap := make(map[string]Location, len(idx.entries))
	for k, v := range idx.entries {
		snap[k] = v
	}
	return snap, nil
}

// Rebuild atomically replaces the entire key set with entries in a single
// step. The compactor does not use it; it repoints surviving keys one at a
// time with Upsert.
func (idx *Index) Rebuild(entries map[string]Location) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = entries
	return nil
}

// Close gracefully shuts down the Index, releasing its memory and ensuring
// that the index cannot be used after closure.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	clear(idx.entries)
	idx.entries = nil

	idx.log.Infow("index closed")
	return nil
}
