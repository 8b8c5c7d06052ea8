package softlock

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mujeralerta/diagnostico/internal/testutil"
)

// A lock is reported exactly while less than its TTL has elapsed, and the
// remaining time never exceeds the TTL.
func TestCenterLock_TTLBoundary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("lock active iff elapsed < ttl", prop.ForAll(
		func(ttlMin, elapsedMin int64) bool {
			ttl := time.Duration(ttlMin) * time.Minute
			elapsed := time.Duration(elapsedMin) * time.Minute

			clock := testutil.NewClock(t0)
			locks := New(testutil.NewTestStore(t), WithClock(clock.Now), WithTTLs(ttl, 0))
			ctx := context.Background()

			locks.WriteCenterLock(ctx, "1", "S1")
			clock.Advance(elapsed)
			lk, ok := locks.ReadCenterLock(ctx, "1")

			if elapsed >= ttl {
				return !ok
			}
			return ok && lk.Remaining == ttl-elapsed && lk.Remaining <= ttl
		},
		gen.Int64Range(1, 48*60),
		gen.Int64Range(0, 72*60),
	))

	properties.Property("expired lock stays gone", prop.ForAll(
		func(extraMin int64) bool {
			clock := testutil.NewClock(t0)
			locks := New(testutil.NewTestStore(t), WithClock(clock.Now))
			ctx := context.Background()

			locks.WriteCenterLock(ctx, "1", "S1")
			clock.Advance(DefaultCenterTTL + time.Duration(extraMin)*time.Minute)
			_, first := locks.ReadCenterLock(ctx, "1")
			_, second := locks.ReadCenterLock(ctx, "1")
			return !first && !second
		},
		gen.Int64Range(0, 10_000),
	))

	properties.TestingRun(t)
}
