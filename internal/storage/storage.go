package storage

import (
	"context"
	"fmt"

	"github.com/example/courierops/internal/config"
)

// Store is the key-value persistence contract every ledger mirrors into.
// Values are opaque strings; each ledger owns its own keys and encoding.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Open builds the Store selected by cfg.StorageDriver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "postgres":
		return OpenPostgres(cfg.DatabaseURL)
	case "redis":
		return OpenRedis(cfg.RedisAddr, cfg.RedisPassword)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
