package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/session"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("expiry is lazy", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := session.NewMemoryCache(session.WithClock(clock.Now))

		require.NoError(t, c.Set(ctx, "a", "1", time.Second))
		require.NoError(t, c.Set(ctx, "b", "2", 0))
		assert.Equal(t, 2, c.Len())

		clock.Advance(time.Second)
		_, ok, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		v, ok, err := c.Get(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("delete reports existence", func(t *testing.T) {
		t.Parallel()
		c := session.NewMemoryCache()
		require.NoError(t, c.Set(ctx, "a", "1", time.Minute))

		ok, err := c.Del(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.Del(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		c := session.NewMemoryCache()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, c.Set(cctx, "a", "1", time.Minute))
	})
}
