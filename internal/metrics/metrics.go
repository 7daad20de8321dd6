package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestCount counts HTTP requests
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	// CheckCount counts similarity checks by terminal status
	CheckCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_checks_total",
			Help: "Total number of similarity checks",
		},
		[]string{"status"},
	)

	// CheckDuration measures similarity check pipeline duration
	CheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "similarity_check_duration_seconds",
			Help: "Similarity check pipeline duration in seconds",
		},
	)

	// IndexRebuildDuration measures corpus index rebuild duration
	IndexRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "corpus_index_rebuild_duration_seconds",
			Help: "Corpus index rebuild duration in seconds",
		},
	)

	// IndexSize reports the number of distinct hashes in the active corpus index
	IndexSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_index_hashes",
			Help: "Distinct hashes in the active corpus index snapshot",
		},
	)
)

// InitPrometheus registers all collectors with the default registry.
func InitPrometheus() {
	prometheus.MustRegister(RequestCount)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CheckCount)
	prometheus.MustRegister(CheckDuration)
	prometheus.MustRegister(IndexRebuildDuration)
	prometheus.MustRegister(IndexSize)
}
