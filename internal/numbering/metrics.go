package numbering

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the allocator collectors. A nil *Metrics records nothing.
type Metrics struct {
	allocated *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	exhausted *prometheus.CounterVec
}

// NewMetrics creates and registers the allocator collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		allocated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_identifiers_allocated_total",
				Help: "Identifiers allocated, by prefix and number of attempts needed.",
			},
			[]string{"prefix", "attempts"},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_identifier_conflicts_total",
				Help: "Lost compare-and-swap rounds during allocation.",
			},
			[]string{"prefix"},
		),
		exhausted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_identifier_allocation_failures_total",
				Help: "Allocations that gave up after the retry budget.",
			},
			[]string{"prefix"},
		),
	}
	for _, c := range []prometheus.Collector{m.allocated, m.conflicts, m.exhausted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeAllocated(prefix string, attempts int) {
	if m == nil {
		return
	}
	m.allocated.WithLabelValues(prefix, strconv.Itoa(attempts)).Inc()
}

func (m *Metrics) observeConflict(prefix string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(prefix).Inc()
}

func (m *Metrics) observeExhausted(prefix string) {
	if m == nil {
		return
	}
	m.exhausted.WithLabelValues(prefix).Inc()
}
