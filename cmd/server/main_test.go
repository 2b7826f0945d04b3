package main

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/config"
	"github.com/dmitrymomot/filesmanager/pkg/queue"
)

func TestNewJobStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		store, err := newJobStore(queue.Config{Backend: queue.BackendMemory}, client, true)
		require.NoError(t, err)
		assert.IsType(t, &queue.MemoryStorage{}, store)
	})

	t.Run("memory without in-process worker", func(t *testing.T) {
		t.Parallel()
		_, err := newJobStore(queue.Config{Backend: queue.BackendMemory}, client, false)
		assert.Error(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		t.Parallel()
		store, err := newJobStore(queue.Config{Backend: queue.BackendRedis, KeyPrefix: "q"}, client, false)
		require.NoError(t, err)
		assert.IsType(t, &queue.RedisStorage{}, store)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := newJobStore(queue.Config{Backend: "kafka"}, client, true)
		assert.Error(t, err)
	})
}

func TestAppConfigDefaults(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("PORT", "5050")
	t.Setenv("QUEUE_BACKEND", "redis")

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, ":5050", cfg.HTTP.Addr())
	assert.Equal(t, queue.BackendRedis, cfg.Queue.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "X-Token", cfg.Session.HeaderName)
	assert.Equal(t, "files_manager", cfg.Mongo.Database)
	assert.Equal(t, "/tmp/files_manager", cfg.File.LocalPath)
	assert.True(t, cfg.RunWorker)
	assert.Equal(t, 50_000_000, cfg.ThumbnailMaxPixels)
	assert.Zero(t, cfg.Queue.AttemptTimeout)
}
