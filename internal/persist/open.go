package persist

import (
	"context"
	"fmt"
	"io"

	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/database"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendDatabase = "database"

	redisKeyPrefix = "journey:"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the adapter selected by STORE_BACKEND. The returned closer
// releases any connection the adapter holds.
func Open(ctx context.Context, cfg *config.Config) (Persister, io.Closer, error) {
	switch cfg.StoreBackend {
	case BackendMemory:
		return NewMemoryPersister(), nopCloser{}, nil
	case BackendFile, "":
		p, err := NewFilePersister(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		return p, nopCloser{}, nil
	case BackendRedis:
		p, err := NewRedisPersister(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisKeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case BackendDatabase:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if db == nil {
			return nil, nil, fmt.Errorf("STORE_BACKEND=%s needs DB_DRIVER sqlite or postgres", BackendDatabase)
		}
		p, err := NewGormPersister(db)
		if err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
		return p, closerFunc(func() error { return database.Close(db) }), nil
	default:
		return nil, nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
