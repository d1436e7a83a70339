package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersister keeps each snapshot under prefix+key with no expiry.
type RedisPersister struct {
	client *redis.Client
	prefix string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisPersister connects and pings the server before returning.
func NewRedisPersister(ctx context.Context, opts RedisOptions) (*RedisPersister, error) {
	const op = "persist.NewRedisPersister"
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisPersister{client: client, prefix: opts.Prefix}, nil
}

func (r *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	const op = "persist.RedisPersister.Load"
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (r *RedisPersister) Save(ctx context.Context, key string, snapshot []byte) error {
	const op = "persist.RedisPersister.Save"
	if err := r.client.Set(ctx, r.prefix+key, snapshot, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisPersister) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisPersister) Close() error {
	return r.client.Close()
}
