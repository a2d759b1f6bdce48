package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Second)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Second)

	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry should have expired")
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.maxEntries = 2
	c.now = func() time.Time { return now }

	c.Set(ctx, "a", []byte("1"))
	now = now.Add(time.Second)
	c.Set(ctx, "b", []byte("2"))
	now = now.Add(time.Second)
	c.Set(ctx, "c", []byte("3"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestCache_SetCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)

	buf := []byte("abc")
	c.Set(ctx, "k", buf)
	buf[0] = 'x'

	got, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}

func TestCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)

	c.Set(ctx, "list:trips:1", []byte("a"))
	c.Set(ctx, "list:trips:2", []byte("b"))
	c.Set(ctx, "other", []byte("c"))

	c.DeletePrefix(ctx, "list:")

	_, ok := c.Get(ctx, "list:trips:1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "list:trips:2")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "other")
	assert.True(t, ok)
}

func TestCache_GenerationSurvivesPrefixDelete(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)

	gen, ok := c.Generation(ctx, "gen")
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	c.Bump(ctx, "gen")
	c.Bump(ctx, "gen")
	c.DeletePrefix(ctx, "")

	gen, ok = c.Generation(ctx, "gen")
	require.True(t, ok)
	assert.Equal(t, int64(2), gen)

	other, _ := c.Generation(ctx, "other")
	assert.Equal(t, int64(0), other)
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	s.Set(context.Background(), "k", []byte("v"))

	_, ok := s.Get(context.Background(), "k")
	assert.False(t, ok)

	s.Bump(context.Background(), "gen")
	_, ok = s.Generation(context.Background(), "gen")
	assert.False(t, ok, "nop cache must report generations as unusable")
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := NewRedis(RedisConfig{Addr: addr, TTL: time.Minute})
	defer r.Close()

	require.NoError(t, r.Ping(ctx))

	r.Set(ctx, "travellog:test:1", []byte("one"))
	r.Set(ctx, "travellog:test:2", []byte("two"))

	got, ok := r.Get(ctx, "travellog:test:1")
	require.True(t, ok)
	assert.Equal(t, "one", string(got))

	r.DeletePrefix(ctx, "travellog:test:")

	_, ok = r.Get(ctx, "travellog:test:2")
	assert.False(t, ok)

	genKey := "travellog:testgen"
	defer r.redisdb.Del(ctx, genKey)

	before, ok := r.Generation(ctx, genKey)
	require.True(t, ok)
	r.Bump(ctx, genKey)
	after, ok := r.Generation(ctx, genKey)
	require.True(t, ok)
	assert.Equal(t, before+1, after)
}
