// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (KeyDir/Index) with an append-only log
// structure on disk to achieve high throughput. It is designed for applications
// requiring fast read and write operations, such as caching, session management,
// and real-time data processing, aiming to provide a simple, efficient, and
// reliable solution for persistent key/value storage in Go applications.
package ignite

import (
	"context"
	"time"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// Represents an instance of the Ignite key/value data store.
// It encapsulates the core engine responsible for data handling and
// the configuration options for this specific database instance.
//
// Instance is the primary entry point for interacting with the Ignite store,
// providing methods for setting, getting, and deleting key-value pairs.
type Instance struct {
	engine  *engine.Engine   // The underlying database engine handling read/write operations.
	options *options.Options // Configuration options applied to this DB instance.
}

// Creates and initializes a new Ignite DB instance.
func NewInstance(context context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	// Initialize a logger for the given service.
	log := logger.New(service)

	// Initialize default options.
	defaultOpts := options.NewDefaultOptions()

	// Apply any provided functional options to override defaults.
	if len(opts) > 0 {
		for _, opt := range opts {
			opt(&defaultOpts)
		}
	}

	// Create a new internal engine with the initialized logger.
	eng, err := engine.New(context, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the database.
// If the key already exists, its value will be updated.
// The operation is durable and will be written to the append-only log.
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	return i.engine.Set(key, string(value))
}

// SetX stores a key-value pair with an expiration time. TTLs are out of
// scope for this engine (see SPEC_FULL.md Non-goals); this method exists
// for API symmetry with Set and always reports errors.ErrNotImplemented.
func (i *Instance) SetX(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	return errors.ErrNotImplemented
}

// Get retrieves the value associated with the given key.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := i.engine.Get(key)
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Delete removes a key-value pair from the database.
// The operation appends a tombstone immediately and the space it frees is
// reclaimed the next time compaction runs.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Remove(key)
}

// Close gracefully shuts down the Ignite DB instance, releasing all
// associated resources, flushing any pending writes, and ensuring data
// durability.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
