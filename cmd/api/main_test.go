package main

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/travellog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConfig() config.Config {
	return config.Config{
		Env:                 "test",
		Port:                0,
		BaseURL:             "http://travellog.test",
		ServiceName:         "travellog-test",
		StoreDriver:         config.StoreMemory,
		CacheDriver:         config.CacheNone,
		JWTSecret:           "test-secret-key",
		JWTTTL:              time.Hour,
		RateLimitRPS:        5,
		RateLimitBurst:      10,
		MaxBodyBytes:        1 << 20,
		PlaceDefaultPicture: "https://example.com/default.png",
	}
}

func TestRun_ReturnsStartupErrors(t *testing.T) {
	cfg := runConfig()
	cfg.CacheDriver = config.CacheRedis
	cfg.RedisAddr = "127.0.0.1:1"

	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache redis init")
}

func TestRun_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, runConfig()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
