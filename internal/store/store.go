// Package store defines the flat key-value collaborator the board persists into.
// Backends live in subpackages: jsonstore (a local file), memstore and redisstore.
package store

import "context"

// KV is a string key-value store with no transactions and no size limits.
// Get reports found=false, with a nil error, for an absent key.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
