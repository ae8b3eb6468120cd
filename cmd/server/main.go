package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/database"
	"github.com/Eckho-Systems/Inventory-System/internal/events"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
	"github.com/Eckho-Systems/Inventory-System/internal/router"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, ping, closeStore, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage backend")
	}
	defer closeStore()
	log.Info().Str("backend", stores.Backend).Msg("storage backend ready")

	if cfg.SeedDefaultOwner {
		seeded, err := database.ApplySeedDataIfEmpty(ctx, stores.Users)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed default owner")
		}
		if seeded {
			log.Warn().Str("username", database.SeedOwnerUsername).
				Msg("seed owner created with the default PIN — change it after first login")
		}
	}

	bus := events.NewBus()
	events.StartLowStockWatcher(ctx, bus)
	if cfg.EventsRedisPublish {
		rdb, err := kvstore.OpenRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis for event mirror")
		}
		events.StartRedisMirror(ctx, bus, rdb, cfg.EventsRedisChannel)
		log.Info().Str("channel", cfg.EventsRedisChannel).Msg("event mirror enabled")
	}

	r := router.New(cfg, stores, bus, ping)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// openStores builds the configured backend and its health ping.
func openStores(cfg *config.Config) (repository.Stores, func(ctx context.Context) error, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendDatabase:
		db, err := database.Open(cfg)
		if err != nil {
			return repository.Stores{}, nil, nil, err
		}
		if err := database.CreateSchema(db); err != nil {
			return repository.Stores{}, nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return repository.Stores{}, nil, nil, err
		}
		ping := func(ctx context.Context) error { return sqlDB.PingContext(ctx) }
		closer := func() { _ = sqlDB.Close() }
		return repository.NewDatabaseStores(db), ping, closer, nil

	case config.BackendKV:
		var store kvstore.Store
		var err error
		switch cfg.KVDriver {
		case "redis":
			store, err = kvstore.OpenRedis(cfg.RedisURL)
		case "file":
			store, err = kvstore.OpenFile(cfg.KVPath)
		default:
			err = fmt.Errorf("unknown KV_DRIVER %q", cfg.KVDriver)
		}
		if err != nil {
			return repository.Stores{}, nil, nil, err
		}
		ping := func(ctx context.Context) error {
			_, err := store.List(ctx, kvstore.BucketUsers)
			return err
		}
		closer := func() { _ = store.Close() }
		return repository.NewKVStores(store), ping, closer, nil

	default:
		return repository.Stores{}, nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
