// Package snapshot persists a completed clustering result as a single,
// whole-blob archive: a compressed, codec-encoded payload addressed by a
// string key in a pluggable backend (local disk, memory, S3, MinIO).
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist in the store.
var ErrNotFound = errors.New("snapshot: not found")

// Store is whole-blob key/value storage for archived run results. Every
// method is context-aware: unlike the CPU-bound clustering pipeline, the
// snapshot subsystem is I/O-bound and every call may cross a network
// boundary.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
