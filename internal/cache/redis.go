package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis shares cached list pages between API replicas.
type Redis struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Redis{redisdb: redisdb, ttl: ttl}
}

// Ping checks redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.redisdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.redisdb.Close()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.redisdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		}
		return nil, false
	}

	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := r.redisdb.Set(ctx, key, val, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

// Generation reads a counter kept by Bump. A missing counter is generation 0;
// any other error disables caching for the request.
func (r *Redis) Generation(ctx context.Context, name string) (int64, bool) {
	gen, err := r.redisdb.Get(ctx, name).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.WarnContext(ctx, "cache generation read failed", "name", name, "err", err)
		return 0, false
	}

	return gen, true
}

// Bump uses INCR so every replica sharing the redis sees the new generation.
func (r *Redis) Bump(ctx context.Context, name string) {
	if err := r.redisdb.Incr(ctx, name).Err(); err != nil {
		slog.WarnContext(ctx, "cache generation bump failed", "name", name, "err", err)
	}
}

// DeletePrefix walks the keyspace with SCAN so it never blocks redis the way
// KEYS would.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) {
	iter := r.redisdb.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var batch []string
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.redisdb.Del(ctx, batch...).Err(); err != nil {
			slog.WarnContext(ctx, "cache invalidate failed", "prefix", prefix, "err", err)
		}
		batch = batch[:0]
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			flush()
		}
	}
	flush()

	if err := iter.Err(); err != nil {
		slog.WarnContext(ctx, "cache scan failed", "prefix", prefix, "err", err)
	}
}
