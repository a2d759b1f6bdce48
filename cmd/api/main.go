package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/travellog/internal/auth"
	"github.com/geocoder89/travellog/internal/config"
	"github.com/geocoder89/travellog/internal/db"
	httpx "github.com/geocoder89/travellog/internal/http"
	"github.com/geocoder89/travellog/internal/http/handlers"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/geocoder89/travellog/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run owns every resource, so its defers have fired before we exit
	if err := run(ctx, cfg); err != nil {
		log.Error("api stopped", "err", err)
		stop()
		os.Exit(1)
	}
}

// run serves the API until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg config.Config) error {
	log := slog.Default()

	startCtx, cancelStart := context.WithTimeout(ctx, 30*time.Second)
	defer cancelStart()

	shutdownTracer, err := observability.InitTracer(startCtx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("tracer init: %w", err)
	}
	defer func() {
		ctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	st, err := openStores(startCtx, cfg, prom)
	if err != nil {
		return fmt.Errorf("store %s init: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	respCache, cachePing, closeCache, err := openCache(startCtx, cfg)
	if err != nil {
		return fmt.Errorf("cache %s init: %w", cfg.CacheDriver, err)
	}
	defer closeCache()

	users := service.NewUsersService(st.users, st.trips)
	trips := service.NewTripsService(st.trips, st.users, st.places)
	places := service.NewPlacesService(st.places, st.trips, cfg.PlaceDefaultPicture)

	if cfg.SeedDemoData {
		if err := db.SeedDemoData(startCtx, users, trips, places); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	ready := map[string]handlers.Pinger{}
	if st.ping != nil {
		ready["store"] = st.ping
	}
	if cachePing != nil {
		ready["cache"] = cachePing
	}

	router := httpx.NewRouter(cfg, httpx.Deps{
		Users:    users,
		Trips:    trips,
		Places:   places,
		Tokens:   auth.NewManager(cfg.JWTSecret, cfg.JWTTTL),
		Cache:    respCache,
		Prom:     prom,
		Gatherer: reg,
		Ready:    ready,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver, "cache", cfg.CacheDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
