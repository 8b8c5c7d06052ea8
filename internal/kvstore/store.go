// Package kvstore is the local key-value persistence port. It plays the role
// browser localStorage plays for a web client: opaque string values under
// namespaced keys, scanned by prefix.
package kvstore

import (
	"context"
	"errors"
)

// ErrClosed is returned by adapters whose underlying connection is gone.
var ErrClosed = errors.New("kvstore: store closed")

// Store is implemented by every storage adapter.
type Store interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, sorted ascending.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
