package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the conversation cache.
type CacheMetrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Degraded  prometheus.Counter
	Evictions prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation_cache",
			Name:      "hits_total",
			Help:      "Total number of conversation cache hits, by layer.",
		}, []string{"layer"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation_cache",
			Name:      "misses_total",
			Help:      "Total number of conversation cache misses, by layer.",
		}, []string{"layer"}),
		Degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation_cache",
			Name:      "degraded_total",
			Help:      "Total number of operations served by memory only because Redis failed.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation_cache",
			Name:      "evictions_total",
			Help:      "Total number of idle conversations evicted from memory.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Degraded, m.Evictions)
	return m
}
