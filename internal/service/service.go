// Package service holds the use cases. Services read through the query cache,
// invalidate it after writes, and report unexpected failures.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"bookingapi/internal/cache"
	"bookingapi/internal/logging"
	"bookingapi/internal/monitor"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrIDRequired   = fmt.Errorf("%w: id is required", ErrInvalidInput)
	ErrUnsubscribed = errors.New("recipient unsubscribed")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListResult is the service-level DTO for paginated lists.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Runner   *cache.Runner
	Keys     cache.KeyBuilder
	Log      logrus.FieldLogger
	Reporter monitor.Reporter
}

type base struct {
	component string
	runner    *cache.Runner
	root      cache.KeyBuilder
	keys      cache.KeyBuilder
	log       *logrus.Entry
	reporter  monitor.Reporter
}

func newBase(d Deps, component string) base {
	runner := d.Runner
	if runner == nil {
		runner = cache.NewRunner(nil, 0, d.Log, nil)
	}
	reporter := d.Reporter
	if reporter == nil {
		reporter = monitor.Noop{}
	}
	return base{
		component: component,
		runner:    runner,
		root:      d.Keys,
		keys:      d.Keys.With(component),
		log:       logging.Component(d.Log, component),
		reporter:  reporter,
	}
}

// fail logs and reports an unexpected error and wraps it with the operation name.
func (b base) fail(ctx context.Context, op string, err error) error {
	b.log.WithField("op", op).WithError(err).Error("service_failed")
	b.reporter.CaptureError(ctx, err, map[string]string{"component": b.component, "op": op})
	return fmt.Errorf("%s %s: %w", b.component, op, err)
}

// invalidate drops cache keys. Failures are already logged by the runner and
// only mean a stale read until the TTL passes.
func (b base) invalidate(ctx context.Context, keys ...string) {
	_ = b.runner.Invalidate(ctx, keys...)
}

func (b base) invalidatePrefix(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		_ = b.runner.InvalidatePrefix(ctx, p)
	}
}

// result maps a repository outcome to the service error contract.
func result[T any](ctx context.Context, b base, op string, v T, err error) (T, error) {
	if err == nil {
		return v, nil
	}
	var zero T
	if isNotFound(err) {
		return zero, ErrNotFound
	}
	return zero, b.fail(ctx, op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, ErrNotFound)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
