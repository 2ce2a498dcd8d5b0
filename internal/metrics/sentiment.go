package metrics

import "github.com/prometheus/client_golang/prometheus"

// SentimentMetrics holds Prometheus metrics for the mood engine.
type SentimentMetrics struct {
	MessagesProcessed *prometheus.CounterVec
	CompoundAffect    prometheus.Gauge
	InteractionCount  prometheus.Gauge
	MoodTransitions   *prometheus.CounterVec
}

// NewSentimentMetrics creates and registers sentiment metrics on the given registry.
func NewSentimentMetrics(reg prometheus.Registerer) *SentimentMetrics {
	m := &SentimentMetrics{
		MessagesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "messages_processed_total",
			Help:      "Total messages run through the analyzer, by result.",
		}, []string{"result"}),
		CompoundAffect: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "compound_affect",
			Help:      "Running compound affect of the current session.",
		}),
		InteractionCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "interaction_count",
			Help:      "Messages merged into the current session's state.",
		}),
		MoodTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "mood_transitions_total",
			Help:      "Total mood changes, by the mood entered.",
		}, []string{"mood"}),
	}

	reg.MustRegister(m.MessagesProcessed, m.CompoundAffect, m.InteractionCount, m.MoodTransitions)
	return m
}
