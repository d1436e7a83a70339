// Package persist holds the durable storage adapters behind the device-side
// stores. Every adapter stores one whole JSON snapshot per key; a save
// overwrites the previous snapshot, there are no partial updates.
package persist

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("persist: snapshot not found")

// Persister loads and saves whole-store snapshots by key.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, snapshot []byte) error
}

// Pinger is implemented by adapters that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
