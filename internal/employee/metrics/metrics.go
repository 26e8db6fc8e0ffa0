package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the employee module.
type Metrics struct {
	Created       prometheus.Counter
	WriteDuration prometheus.Histogram
}

// New registers the employee module metrics.
func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_employees_created_total",
			Help: "Total number of employees created",
		}),
		WriteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "staffdesk_employee_write_duration_seconds",
			Help:    "Duration of employee create/update operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a successful employee creation.
func (m *Metrics) IncrementCreated() {
	m.Created.Inc()
}

// ObserveWrite records the duration of a write operation.
// Call with time.Now() from the start of the operation.
func (m *Metrics) ObserveWrite(start time.Time) {
	m.WriteDuration.Observe(time.Since(start).Seconds())
}
