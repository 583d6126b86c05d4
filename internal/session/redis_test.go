package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		sess := New("admin@example.com", time.Hour)

		err := store.Set(ctx, sess)
		require.NoError(t, err)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sess.ID, got.ID)
		assert.Equal(t, sess.Email, got.Email)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		got, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetExpired", func(t *testing.T) {
		sess := New("admin@example.com", -time.Minute)
		require.NoError(t, store.Set(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		sess := New("admin@example.com", time.Hour)
		require.NoError(t, store.Set(ctx, sess))

		require.NoError(t, store.Delete(ctx, sess.ID))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("CheckRateLimit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := store.CheckRateLimit(ctx, "login:10.0.0.1", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := store.CheckRateLimit(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(2 * time.Minute)

		allowed, err = store.CheckRateLimit(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		empty := NewRedisStore(nil, time.Hour)
		_, err := empty.Get(ctx, "x")
		assert.Error(t, err)
		assert.Error(t, empty.Set(ctx, New("a@b.co", time.Hour)))
		assert.Error(t, empty.Delete(ctx, "x"))
	})
}
