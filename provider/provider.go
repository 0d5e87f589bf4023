// Package provider defines the storage abstraction taskview keeps view
// snapshots in.
//
// Implementations MUST be byte-for-byte transparent: Get must return
// exactly the same []byte that was previously passed to Set for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g. compression), they MUST be fully
// reversed before Get returns.
//
// The keyspace "view:<ns>:" is owned by taskview. External code MUST NOT
// write values under this prefix; foreign writes fail strict wire-format
// validation and are deleted on read.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent
// use. The TTL is the view eviction knob: taskview itself never ages
// entries out.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// IO/remote errors return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
