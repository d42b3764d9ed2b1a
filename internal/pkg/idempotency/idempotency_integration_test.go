//go:build integration

package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStateTracker(t *testing.T) {
	ctx := context.Background()
	s := New(newRedis(t))

	st, err := s.Acquire(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateNone, st)

	st, err = s.Acquire(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, st)

	require.NoError(t, s.Release(ctx, "k1"))
	st, err = s.Acquire(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateNone, st)

	require.NoError(t, s.Exec(ctx, "k2", func(context.Context) error { return nil }))
	assert.ErrorIs(t, s.Exec(ctx, "k2", func(context.Context) error { return nil }), ErrAlreadyCompleted)

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Exec(ctx, "k3", func(context.Context) error { return boom }), boom)
	assert.ErrorIs(t, s.Exec(ctx, "k3", func(context.Context) error { return nil }), ErrAlreadyFailed)

	assert.ErrorIs(t, s.Exec(ctx, "k4", func(context.Context) error { return boom }, WithReleaseOnError()), boom)
	runs := 0
	require.NoError(t, s.Exec(ctx, "k4", func(context.Context) error { runs++; return nil }, WithReleaseOnError()))
	assert.Equal(t, 1, runs, "a released key runs again")

	require.NoError(t, s.Exec(ctx, "k5", func(context.Context) error { return nil }, WithStateTTL(time.Second)))
	time.Sleep(1500 * time.Millisecond)
	assert.NoError(t, s.Exec(ctx, "k5", func(context.Context) error { return nil }))
}
