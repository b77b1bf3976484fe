package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate event metrics. Registered on the default registry and served from
// /metrics.
var (
	entriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_entries_total",
		Help: "Entry gate events by registration status.",
	}, []string{"registered"})

	exitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gate_exits_total",
		Help: "Exit gate events.",
	})

	suspiciousTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_suspicious_total",
		Help: "Suspicion verdicts by trigger.",
	}, []string{"trigger"}) // frequency / duration

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gate_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
)
