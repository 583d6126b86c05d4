package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		sess := New("admin@example.com", time.Hour)
		require.NoError(t, store.Set(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
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
		for i := 0; i < 5; i++ {
			allowed, err := store.CheckRateLimit(ctx, "login:x", 5, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := store.CheckRateLimit(ctx, "login:x", 5, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("RateLimitWindowReset", func(t *testing.T) {
		allowed, err := store.CheckRateLimit(ctx, "login:y", 1, time.Nanosecond)
		require.NoError(t, err)
		assert.True(t, allowed)

		time.Sleep(time.Millisecond)

		allowed, err = store.CheckRateLimit(ctx, "login:y", 1, time.Nanosecond)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestNewSession(t *testing.T) {
	a := New("admin@example.com", time.Hour)
	b := New("admin@example.com", time.Hour)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Expired(time.Now()))
	assert.True(t, a.Expired(time.Now().Add(2*time.Hour)))
}
