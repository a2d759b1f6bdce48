package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/travellog/internal/cache"
	"github.com/geocoder89/travellog/internal/config"
	"github.com/geocoder89/travellog/internal/db"
	"github.com/geocoder89/travellog/internal/http/handlers"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/geocoder89/travellog/internal/repo/memory"
	"github.com/geocoder89/travellog/internal/repo/mongostore"
	"github.com/geocoder89/travellog/internal/repo/postgres"
	"github.com/geocoder89/travellog/internal/service"
)

type stores struct {
	users  service.UserStore
	trips  service.TripStore
	places service.PlaceStore

	ping  handlers.Pinger
	close func()
}

func openStores(ctx context.Context, cfg config.Config, prom *observability.Prom) (stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}

		if err := db.MigratePool(pool); err != nil {
			pool.Close()
			return stores{}, err
		}

		return stores{
			users:  postgres.NewUsersRepo(pool, prom),
			trips:  postgres.NewTripsRepo(pool, prom),
			places: postgres.NewPlacesRepo(pool, prom),
			ping:   pool.Ping,
			close:  pool.Close,
		}, nil

	case config.StoreMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return stores{}, err
		}

		database := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return stores{}, err
		}

		return stores{
			users:  mongostore.NewUsersRepo(database, prom),
			trips:  mongostore.NewTripsRepo(database, prom),
			places: mongostore.NewPlacesRepo(database, prom),
			ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					slog.Error("mongo disconnect failed", "err", err)
				}
			},
		}, nil

	default:
		slog.Warn("using in-memory store; data is lost on restart")
		return stores{
			users:  memory.NewUsersRepo(),
			trips:  memory.NewTripsRepo(),
			places: memory.NewPlacesRepo(),
			close:  func() {},
		}, nil
	}
}

func openCache(ctx context.Context, cfg config.Config) (cache.Store, handlers.Pinger, func(), error) {
	switch cfg.CacheDriver {
	case config.CacheRedis:
		r := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})

		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}

		return r, r.Ping, func() { _ = r.Close() }, nil

	case config.CacheMemory:
		return cache.New(cfg.CacheTTL), nil, func() {}, nil

	default:
		return cache.Nop{}, nil, func() {}, nil
	}
}
