package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSlotLocker(client, ttl), mr
}

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "lock:slot:2025-01-10T15:30", SlotKey("2025-01-10", "15:30"))
	assert.NotEqual(t, SlotKey("2025-01-10", "15:30"), SlotKey("2025-01-11", "15:30"))
}

func TestWithSlotLock_HoldsKeyAndReleases(t *testing.T) {
	locker, mr := newTestLocker(t, 5*time.Second)
	key := SlotKey("2025-01-10", "15:30")

	ran := false
	err := locker.WithSlotLock(context.Background(), "2025-01-10", "15:30", func(ctx context.Context) error {
		ran = true
		assert.True(t, mr.Exists(key))
		assert.Greater(t, mr.TTL(key), time.Duration(0))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists(key), "released after fn returns")
}

func TestWithSlotLock_ContentionOnSameSlot(t *testing.T) {
	locker, _ := newTestLocker(t, 5*time.Second)
	ctx := context.Background()

	err := locker.WithSlotLock(ctx, "2025-01-10", "15:30", func(ctx context.Context) error {
		inner := locker.WithSlotLock(ctx, "2025-01-10", "15:30", func(context.Context) error {
			t.Fatal("second holder must not run")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)

		other := locker.WithSlotLock(ctx, "2025-01-10", "16:00", func(context.Context) error { return nil })
		assert.NoError(t, other, "different slot is independent")
		return nil
	})
	require.NoError(t, err)

	// free again once the first holder is done
	assert.NoError(t, locker.WithSlotLock(ctx, "2025-01-10", "15:30", func(context.Context) error { return nil }))
}

func TestWithSlotLock_ReleaseKeepsAnotherHoldersKey(t *testing.T) {
	locker, mr := newTestLocker(t, 5*time.Second)
	key := SlotKey("2025-01-10", "15:30")

	err := locker.WithSlotLock(context.Background(), "2025-01-10", "15:30", func(ctx context.Context) error {
		// our lock expired and another replica took the slot
		mr.Del(key)
		require.NoError(t, mr.Set(key, "other-holder-token"))
		return nil
	})
	require.NoError(t, err)

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "other-holder-token", got)
}

func TestWithSlotLock_PropagatesFnError(t *testing.T) {
	locker, mr := newTestLocker(t, 5*time.Second)
	boom := errors.New("insert failed")

	err := locker.WithSlotLock(context.Background(), "2025-01-10", "15:30", func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(SlotKey("2025-01-10", "15:30")))
}

func TestWithSlotLock_RedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	locker := NewRedisSlotLocker(client, 5*time.Second)

	err := locker.WithSlotLock(context.Background(), "2025-01-10", "15:30", func(context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockNotAcquired)
}
