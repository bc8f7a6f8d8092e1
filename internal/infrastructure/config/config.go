package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type StoreConfig struct {
	// Backend selects where the user table lives: "file" or "mongo".
	Backend string `env:"STORE_BACKEND, default=file"`
	// File is the JSON table path used by the file backend.
	File string `env:"STORE_FILE,    default=bankDB.json"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=banking_system"`
}

type RedisConfig struct {
	// Enabled switches the Redis-backed idempotency checker on. Off by
	// default so the server runs with no external dependencies.
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Store.Backend != BackendFile && cfg.Store.Backend != BackendMongo {
		return nil, fmt.Errorf("config: unknown store backend %q", cfg.Store.Backend)
	}
	return &cfg, nil
}
