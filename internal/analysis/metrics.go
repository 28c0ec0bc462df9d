package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal tracks analyses by how they resolved
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apostas_slip_analyses_total",
			Help: "Total number of slip analyses by resolution path",
		},
		[]string{"source"},
	)

	// FallbackLatency tracks AI fallback call latency
	FallbackLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apostas_slip_fallback_latency_seconds",
			Help:    "AI fallback call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheHitRatio tracks the analysis cache hit ratio
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apostas_slip_analysis_cache_hit_ratio",
			Help: "Hit ratio of the per-session analysis cache",
		},
	)
)
