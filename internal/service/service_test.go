package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"bookingapi/internal/cache"
	"bookingapi/internal/logging"
)

type fakeReporter struct {
	mu     sync.Mutex
	errors []error
	tags   []map[string]string
}

func (f *fakeReporter) CaptureError(_ context.Context, err error, tags map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, err)
	f.tags = append(f.tags, tags)
}

func (f *fakeReporter) Flush(time.Duration) bool { return true }

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors)
}

type testEnv struct {
	deps     Deps
	store    *cache.MemoryStore
	reporter *fakeReporter
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := cache.NewMemoryStore(1000, time.Minute)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	metrics, err := cache.NewMetrics(reg)
	require.NoError(t, err)
	reporter := &fakeReporter{}
	return &testEnv{
		deps: Deps{
			Runner:   cache.NewRunner(store, time.Minute, logging.Discard(), metrics),
			Keys:     cache.NewKeyBuilder("test"),
			Log:      logging.Discard(),
			Reporter: reporter,
		},
		store:    store,
		reporter: reporter,
		registry: reg,
	}
}

func (e *testEnv) cached(t *testing.T, key string) bool {
	t.Helper()
	_, err := e.store.Get(context.Background(), key)
	return err == nil
}

// hits reads cache_requests_total{result="hit"}.
func (e *testEnv) hits(t *testing.T) float64 {
	t.Helper()
	families, err := e.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "cache_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == cache.ResultHit {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
