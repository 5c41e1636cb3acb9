package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stochclock/pkg/adapters/redis"
	"github.com/aretw0/stochclock/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Publisher) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	pub := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = pub.Close() })
	return mr, pub
}

func TestPublisher_PublishSubscribe(t *testing.T) {
	_, pub := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, pub.Ping(ctx))

	events, err := pub.Subscribe(ctx)
	require.NoError(t, err)

	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	sent := []domain.StateChanged{
		domain.NewStateChanged(1, domain.StateRed, "run-a", at),
		domain.NewStateChanged(2, domain.StateTick, "run-a", at),
	}
	for _, evt := range sent {
		require.NoError(t, pub.Emit(ctx, evt))
	}

	for _, want := range sent {
		select {
		case got := <-events:
			assert.Equal(t, want.Tick, got.Tick)
			assert.Equal(t, want.State, got.State)
			assert.Equal(t, want.Color, got.Color)
			assert.Equal(t, want.AudioCue, got.AudioCue)
			assert.True(t, want.At.Equal(got.At))
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestPublisher_Counters(t *testing.T) {
	mr, pub := setup(t, redis.WithCounters(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	for i, s := range []domain.State{0, 0, 2, 3, 0} {
		require.NoError(t, pub.Emit(ctx, domain.NewStateChanged(uint64(i+1), s, "run-b", time.Time{})))
	}

	v, err := pub.Visits(ctx, "run-b")
	require.NoError(t, err)
	assert.Equal(t, [domain.NumStates]uint64{3, 0, 1, 1}, v.Counts)
	assert.Equal(t, uint64(5), v.Total)

	assert.True(t, mr.Exists("test:visits:run-b"))
	assert.Equal(t, time.Minute, mr.TTL("test:visits:run-b"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("test:visits:run-b"))
}

func TestPublisher_NoCountersByDefault(t *testing.T) {
	mr, pub := setup(t)
	require.NoError(t, pub.Emit(context.Background(), domain.NewStateChanged(1, domain.StateBlue, "run-c", time.Time{})))
	assert.False(t, mr.Exists("stochclock:visits:run-c"))
}

func TestPublisher_EmitFailsWhenServerDown(t *testing.T) {
	mr, pub := setup(t)
	mr.Close()

	err := pub.Emit(context.Background(), domain.NewStateChanged(1, domain.StateBlue, "", time.Time{}))
	assert.Error(t, err)
	assert.Error(t, pub.Ping(context.Background()))
}

func TestNew_UsesAddress(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pub := redis.New(mr.Addr(), "", 0, redis.WithChannel("custom"))
	defer pub.Close()
	assert.NoError(t, pub.Ping(context.Background()))
}
