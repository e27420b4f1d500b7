package probe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// outcomeEscaped labels probes that ended in an unmodeled fault.
const outcomeEscaped = "escaped"

type Metrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiconnect",
			Name:      "probe_outcomes_total",
			Help:      "Connectivity probes by provider and outcome.",
		}, []string{"provider", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apiconnect",
			Name:      "probe_duration_seconds",
			Help:      "Round-trip time of the outbound vendor request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	reg.MustRegister(m.outcomes, m.duration)
	return m
}

func (m *Metrics) observe(provider, outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(provider, outcome).Inc()
	if latency > 0 {
		m.duration.WithLabelValues(provider).Observe(latency.Seconds())
	}
}
