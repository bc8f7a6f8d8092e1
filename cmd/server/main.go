package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sistemabancario/banking-system/internal/api"
	"github.com/sistemabancario/banking-system/internal/core/ports"
	"github.com/sistemabancario/banking-system/internal/infrastructure/config"
	"github.com/sistemabancario/banking-system/internal/infrastructure/db/mongo"
	"github.com/sistemabancario/banking-system/internal/infrastructure/db/redis"
	"github.com/sistemabancario/banking-system/internal/infrastructure/store/jsonfile"
	"github.com/sistemabancario/banking-system/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- User store ---
	var store ports.UserStore
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		store = mongo.NewUserStore(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo store")
	default:
		store = jsonfile.New(cfg.Store.File)
		log.Info().Str("file", cfg.Store.File).Msg("using file store")
	}

	// --- Redis (optional, idempotency only) ---
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() {
			_ = rdb.Close()
		}()
	}

	e := api.NewRouter(store, rdb, cfg.JWTSecret, cfg.TokenTTL, log)

	// --- Start and wait for shutdown ---
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
