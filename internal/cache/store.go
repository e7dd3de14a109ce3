package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get and Store.Expire when the key is absent.
var ErrMiss = errors.New("cache: miss")

// Store is the minimal key/value surface the runner and invalidation need.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
