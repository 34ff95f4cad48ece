package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal tracks bloom checks per chain and outcome
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomcheck_checks_total",
			Help: "Total number of bloom checks",
		},
		[]string{"chain", "outcome"},
	)

	// SoundnessViolationsTotal tracks observed soundness violations.
	// Any non-zero value here means a corrupted filter or derivation bug.
	SoundnessViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomcheck_soundness_violations_total",
			Help: "Total number of bloom soundness violations observed",
		},
		[]string{"chain"},
	)

	// BloomHits tracks per-candidate membership results
	BloomHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomcheck_bloom_hits_total",
			Help: "Bloom membership results by candidate kind",
		},
		[]string{"chain", "kind", "present"},
	)

	// HeaderCacheHits tracks header cache effectiveness
	HeaderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomcheck_header_cache_hits_total",
			Help: "Header cache hits and misses",
		},
		[]string{"chain", "result"},
	)

	// CheckDuration tracks end-to-end check latency
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloomcheck_check_duration_seconds",
			Help:    "End-to-end check latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain", "verified"},
	)
)
