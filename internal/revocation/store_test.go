package revocation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garage_market/internal/testutil"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type storeFactory func(t *testing.T, class string, c *clock) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, _ string, c *clock) Store {
			return NewMemoryStoreWithClock(c.Now)
		},
		"gorm": func(t *testing.T, class string, c *clock) Store {
			return NewGormStore(testutil.NewDB(t), class).WithClock(c.Now)
		},
	}
}

func TestStore_RevokeThenIsRevoked(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := &clock{now: time.Unix(1_700_000_000, 0)}
			s := factory(t, "access", c)

			revoked, err := s.IsRevoked(ctx, "tok-1")
			require.NoError(t, err)
			assert.False(t, revoked)

			require.NoError(t, s.Revoke(ctx, "tok-1", c.Now().Add(time.Hour)))

			revoked, err = s.IsRevoked(ctx, "tok-1")
			require.NoError(t, err)
			assert.True(t, revoked)

			revoked, err = s.IsRevoked(ctx, "tok-2")
			require.NoError(t, err)
			assert.False(t, revoked)
		})
	}
}

func TestStore_RevokeIsIdempotent(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := &clock{now: time.Unix(1_700_000_000, 0)}
			s := factory(t, "refresh", c)
			exp := c.Now().Add(time.Hour)

			require.NoError(t, s.Revoke(ctx, "tok", exp))
			require.NoError(t, s.Revoke(ctx, "tok", exp))
			require.NoError(t, s.Revoke(ctx, "tok", exp.Add(time.Hour)))

			revoked, err := s.IsRevoked(ctx, "tok")
			require.NoError(t, err)
			assert.True(t, revoked)
		})
	}
}

func TestStore_ConcurrentRevokeOfSameToken(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := &clock{now: time.Unix(1_700_000_000, 0)}
			s := factory(t, "access", c)
			exp := c.Now().Add(time.Hour)

			var wg sync.WaitGroup
			errs := make(chan error, 16)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- s.Revoke(ctx, "racy", exp)
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(t, err)
			}
			revoked, err := s.IsRevoked(ctx, "racy")
			require.NoError(t, err)
			assert.True(t, revoked)
		})
	}
}

func TestStore_EntryDoesNotOutliveExpiry(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			start := time.Unix(1_700_000_000, 0)
			c := &clock{now: start}
			s := factory(t, "access", c)

			require.NoError(t, s.Revoke(ctx, "short", start.Add(time.Minute)))
			require.NoError(t, s.Revoke(ctx, "long", start.Add(time.Hour)))

			c.Set(start.Add(time.Minute))
			revoked, err := s.IsRevoked(ctx, "short")
			require.NoError(t, err)
			assert.False(t, revoked)

			removed, err := s.Sweep(ctx, c.Now())
			require.NoError(t, err)
			assert.LessOrEqual(t, removed, 1)

			revoked, err = s.IsRevoked(ctx, "long")
			require.NoError(t, err)
			assert.True(t, revoked)
		})
	}
}

func TestStore_SweepRemovesOnlyExpired(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			start := time.Unix(1_700_000_000, 0)
			c := &clock{now: start}
			s := factory(t, "refresh", c)

			require.NoError(t, s.Revoke(ctx, "a", start.Add(time.Minute)))
			require.NoError(t, s.Revoke(ctx, "b", start.Add(2*time.Minute)))
			require.NoError(t, s.Revoke(ctx, "c", start.Add(time.Hour)))

			removed, err := s.Sweep(ctx, start.Add(2*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 2, removed)

			revoked, err := s.IsRevoked(ctx, "c")
			require.NoError(t, err)
			assert.True(t, revoked)
		})
	}
}

func TestStore_AlreadyExpiredTokenIsNotStored(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Unix(1_700_000_000, 0)}
	s := NewMemoryStoreWithClock(c.Now)

	require.NoError(t, s.Revoke(ctx, "stale", c.Now().Add(-time.Second)))
	assert.Equal(t, 0, s.Len())
}

func TestGormStore_ClassesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	access := NewGormStore(db, "access")
	refresh := NewGormStore(db, "refresh")

	require.NoError(t, access.Revoke(ctx, "shared-string", time.Now().Add(time.Hour)))

	revoked, err := refresh.IsRevoked(ctx, "shared-string")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = access.IsRevoked(ctx, "shared-string")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0)
	c := &clock{now: start}
	access := NewMemoryStoreWithClock(c.Now)
	refresh := NewMemoryStoreWithClock(c.Now)

	require.NoError(t, access.Revoke(ctx, "a", start.Add(time.Minute)))
	require.NoError(t, refresh.Revoke(ctx, "r", start.Add(time.Minute)))
	require.NoError(t, refresh.Revoke(ctx, "keep", start.Add(time.Hour)))

	sw := &Sweeper{
		Stores: map[string]Store{"access": access, "refresh": refresh},
		Now:    func() time.Time { return start.Add(time.Minute) },
	}
	assert.Equal(t, 2, sw.SweepOnce(ctx))
	assert.Equal(t, 0, access.Len())
	assert.Equal(t, 1, refresh.Len())
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sw := &Sweeper{Stores: map[string]Store{"access": NewMemoryStore()}, Interval: time.Millisecond}

	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
