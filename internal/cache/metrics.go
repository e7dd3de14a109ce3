package cache

import "github.com/prometheus/client_golang/prometheus"

// Result labels of cache_requests_total.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultBypass = "bypass"
	ResultError  = "error"
)

// Metrics counts runner outcomes.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers the cache counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_requests_total",
				Help: "Read-through cache lookups by result.",
			},
			[]string{"result"},
		),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) inc(result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(result).Inc()
}
