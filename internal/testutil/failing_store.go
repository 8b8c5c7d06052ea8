package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/mujeralerta/diagnostico/internal/kvstore"
)

// ErrInjected is the default error returned by FailingStore.
var ErrInjected = errors.New("injected storage failure")

// FailingStore wraps a Store and fails selected operations, simulating a
// full disk or a storage backend that went away mid-session.
type FailingStore struct {
	Inner      kvstore.Store
	FailGet    bool
	FailSet    bool
	FailRemove bool
	FailKeys   bool
	Err        error

	sets atomic.Int32
}

func (f *FailingStore) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

func (f *FailingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.FailGet {
		return "", false, f.err()
	}
	return f.Inner.Get(ctx, key)
}

func (f *FailingStore) Set(ctx context.Context, key, value string) error {
	f.sets.Add(1)
	if f.FailSet {
		return f.err()
	}
	return f.Inner.Set(ctx, key, value)
}

func (f *FailingStore) Remove(ctx context.Context, key string) error {
	if f.FailRemove {
		return f.err()
	}
	return f.Inner.Remove(ctx, key)
}

func (f *FailingStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if f.FailKeys {
		return nil, f.err()
	}
	return f.Inner.Keys(ctx, prefix)
}

// SetCalls returns how many Set calls were attempted, failed or not.
func (f *FailingStore) SetCalls() int {
	return int(f.sets.Load())
}
