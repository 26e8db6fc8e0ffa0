package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the benefit module.
type Metrics struct {
	ReplaceDuration prometheus.Histogram
}

// New registers the benefit module metrics.
func New() *Metrics {
	return &Metrics{
		ReplaceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "staffdesk_benefit_replace_duration_seconds",
			Help:    "Duration of assignment replace operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveReplace records the duration of a replace operation.
// Call with time.Now() from the start of the operation.
func (m *Metrics) ObserveReplace(start time.Time) {
	m.ReplaceDuration.Observe(time.Since(start).Seconds())
}
