package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"docissuer/internal/model"
)

// Metrics holds the renderer collectors. A nil *Metrics records nothing.
type Metrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewMetrics creates and registers the renderer collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "document_render_duration_seconds",
				Help:    "Time spent rendering a document to PDF.",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"variant"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_render_failures_total",
				Help: "Renders rejected or failed, by variant.",
			},
			[]string{"variant"},
		),
	}
	for _, c := range []prometheus.Collector{m.duration, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(variant model.DocumentClass, d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failures.WithLabelValues(string(variant)).Inc()
		return
	}
	m.duration.WithLabelValues(string(variant)).Observe(d.Seconds())
}
