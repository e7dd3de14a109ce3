package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"bookingapi/internal/logging"
)

// DefaultTTL applies when a Runner is built without one.
const DefaultTTL = time.Hour

// FetchFn loads a value from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Runner executes queries through the cache. A nil store disables caching.
type Runner struct {
	store   Store
	ttl     time.Duration
	log     *logrus.Entry
	metrics *Metrics
}

// NewRunner builds a runner. metrics may be nil.
func NewRunner(store Store, ttl time.Duration, log logrus.FieldLogger, metrics *Metrics) *Runner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Runner{
		store:   store,
		ttl:     ttl,
		log:     logging.Component(log, "cache"),
		metrics: metrics,
	}
}

// TTL returns the default entry lifetime.
func (r *Runner) TTL() time.Duration {
	return r.ttl
}

// Run executes fetch through the cache using the runner TTL.
func Run[T any](ctx context.Context, r *Runner, key string, fetch FetchFn[T]) (T, error) {
	return RunTTL(ctx, r, key, r.ttl, fetch)
}

// RunTTL is Run with an explicit entry lifetime.
func RunTTL[T any](ctx context.Context, r *Runner, key string, ttl time.Duration, fetch FetchFn[T]) (T, error) {
	if key == "" || r.store == nil {
		r.metrics.inc(ResultBypass)
		return fetch(ctx)
	}

	if cached, ok := r.lookup(ctx, key); ok {
		var out T
		err := json.Unmarshal(cached, &out)
		if err == nil {
			r.metrics.inc(ResultHit)
			return out, nil
		}
		r.metrics.inc(ResultError)
		r.log.WithField("key", key).WithError(err).Warn("cache_decode_failed")
	} else {
		r.metrics.inc(ResultMiss)
	}

	out, err := fetch(ctx)
	if err != nil {
		return out, err
	}

	r.populate(ctx, key, ttl, out)
	return out, nil
}

func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.store.Get(ctx, key)
	if err == nil {
		return b, true
	}
	if !errors.Is(err, ErrMiss) {
		r.metrics.inc(ResultError)
		r.log.WithField("key", key).WithError(err).Warn("cache_get_failed")
	}
	return nil, false
}

func (r *Runner) populate(ctx context.Context, key string, ttl time.Duration, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		r.metrics.inc(ResultError)
		r.log.WithField("key", key).WithError(err).Warn("cache_encode_failed")
		return
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	if err := r.store.Set(ctx, key, b, ttl); err != nil {
		r.metrics.inc(ResultError)
		r.log.WithField("key", key).WithError(err).Warn("cache_set_failed")
	}
}

// Invalidate deletes the given keys. Empty keys are skipped.
func (r *Runner) Invalidate(ctx context.Context, keys ...string) error {
	if r.store == nil {
		return nil
	}
	live := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			live = append(live, k)
		}
	}
	if len(live) == 0 {
		return nil
	}
	if err := r.store.Delete(ctx, live...); err != nil {
		r.log.WithField("keys", live).WithError(err).Error("cache_invalidate_failed")
		return err
	}
	return nil
}

// InvalidatePrefix deletes every key starting with prefix.
func (r *Runner) InvalidatePrefix(ctx context.Context, prefix string) error {
	if r.store == nil || prefix == "" {
		return nil
	}
	if err := r.store.DeleteByPrefix(ctx, prefix); err != nil {
		r.log.WithField("prefix", prefix).WithError(err).Error("cache_invalidate_failed")
		return err
	}
	return nil
}
