package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockedStore() (*MemoryStore, *time.Time) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	return store, &now
}

func TestLimiterAllowsUpToMaxThenRejects(t *testing.T) {
	t.Parallel()

	store, _ := clockedStore()
	limiter := New(store, 5, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, limiter.Check(ctx, "203.0.113.7", "/api/v1/auth?action=login"), "request %d", i)
	}
	assert.ErrorIs(t, limiter.Check(ctx, "203.0.113.7", "/api/v1/auth?action=login"), ErrLimited)
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	t.Parallel()

	store, now := clockedStore()
	limiter := New(store, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Check(ctx, "ip", "/jobs"))
	require.NoError(t, limiter.Check(ctx, "ip", "/jobs"))
	require.ErrorIs(t, limiter.Check(ctx, "ip", "/jobs"), ErrLimited)

	*now = now.Add(time.Minute)
	require.ErrorIs(t, limiter.Check(ctx, "ip", "/jobs"), ErrLimited, "window is inclusive of its last instant")

	*now = now.Add(time.Second)
	require.NoError(t, limiter.Check(ctx, "ip", "/jobs"))
	require.NoError(t, limiter.Check(ctx, "ip", "/jobs"))
	assert.ErrorIs(t, limiter.Check(ctx, "ip", "/jobs"), ErrLimited)
}

func TestLimiterKeysByClientAndEndpoint(t *testing.T) {
	t.Parallel()

	store, _ := clockedStore()
	limiter := New(store, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Check(ctx, "a", "/x"))
	require.NoError(t, limiter.Check(ctx, "b", "/x"))
	require.NoError(t, limiter.Check(ctx, "a", "/y"))
	assert.ErrorIs(t, limiter.Check(ctx, "a", "/x"), ErrLimited)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("redis down")
}

func TestLimiterSurfacesStoreErrors(t *testing.T) {
	t.Parallel()

	err := New(failingStore{}, 1, time.Minute).Check(context.Background(), "a", "/x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLimited)
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	limiter := New(NewMemoryStore(), 0, 0)
	assert.Equal(t, 60, limiter.max)
	assert.Equal(t, time.Minute, limiter.Window())
}

func TestMemoryStoreSweepsOncePerWindow(t *testing.T) {
	t.Parallel()

	store, now := clockedStore()
	ctx := context.Background()

	_, err := store.Hit(ctx, "stale", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, store.sweeps)

	for i := 0; i < 5000; i++ {
		_, err := store.Hit(ctx, fmt.Sprintf("198.51.100.%d|/api/v1/jobs", i), time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.sweeps, "new keys within one window must not rescan the map")

	*now = now.Add(2 * time.Minute)
	_, err = store.Hit(ctx, "fresh", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, store.sweeps)
	assert.Len(t, store.windows, 1, "expired windows are dropped by the sweep")
}
