package durable

import "context"

// Store is a small persistent key-value surface that survives process
// restarts. It backs crash recovery for locally tracked state; it is not
// required to be atomic across crashes.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var _ Store = (*RedisStore)(nil)
