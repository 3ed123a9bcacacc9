package kvstore

import (
	"context"
)

// Store is the durable local key-value storage the client persists its session in.
// Implementations: file (go-billy) and Redis.
type Store interface {
	// Get returns (value, found, error)
	// - found = false: key absent, value is ""
	Get(ctx context.Context, key string) (string, bool, error)

	// SetMany writes all pairs in one operation; either all are stored or none
	SetMany(ctx context.Context, values map[string]string) error

	// Delete removes keys; absent keys are ignored
	Delete(ctx context.Context, keys ...string) error
}
