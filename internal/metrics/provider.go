package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProviderMetrics holds Prometheus metrics for LLM completion requests.
type ProviderMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Retries         *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics on the given registry.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	m := &ProviderMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total completion requests by provider and result.",
		}, []string{"provider", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Completion latency in seconds, including retries.",
			Buckets:   []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"provider"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "retries_total",
			Help:      "Total completion retries by provider.",
		}, []string{"provider"}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.Retries)
	return m
}
