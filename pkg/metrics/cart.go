package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	conflicts prometheus.Counter
	active    prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_cross_restaurant_conflicts_total",
		Help: "Add attempts rejected because the cart belongs to another restaurant.",
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_active_sessions",
		Help: "Sessions with a hydrated cart aggregator.",
	})
	reg.MustRegister(mutations, conflicts, active)
	return &CartMetrics{
		mutations: mutations,
		conflicts: conflicts,
		active:    active,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncConflict increments the cross-restaurant conflict counter.
func (c *CartMetrics) IncConflict() {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.Inc()
}

// SetActiveSessions records the number of live aggregators.
func (c *CartMetrics) SetActiveSessions(n int) {
	if c == nil || c.active == nil {
		return
	}
	c.active.Set(float64(n))
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
