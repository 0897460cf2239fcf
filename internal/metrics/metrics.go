// Package metrics exposes Prometheus instruments for the explorer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trashday_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trashday_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// Dataset
	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trashday_dataset_loads_total",
			Help: "Dataset loads by backend and result",
		},
		[]string{"backend", "result"},
	)

	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trashday_dataset_load_duration_seconds",
			Help:    "Time spent loading the dataset",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trashday_dataset_rows",
			Help: "Number of address records in the most recently loaded dataset",
		},
	)

	DatasetVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trashday_dataset_version",
			Help: "Latest dataset version announced or imported",
		},
	)

	// Cache
	DatasetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trashday_dataset_cache_hits_total",
			Help: "Dataset requests served from cache",
		},
	)

	DatasetCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trashday_dataset_cache_misses_total",
			Help: "Dataset requests that required a load",
		},
	)

	// Engine
	FilterOutputRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trashday_filter_output_rows",
			Help:    "Rows retained by page filters",
			Buckets: []float64{0, 1, 10, 100, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"page"},
	)

	// Security
	SuspiciousRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trashday_suspicious_requests_total",
			Help: "Requests flagged by the detector by reason",
		},
		[]string{"reason"},
	)

	// AMQP
	DatasetUpdatesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trashday_dataset_updates_published_total",
			Help: "Dataset update messages published by result",
		},
		[]string{"result"},
	)

	DatasetUpdatesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trashday_dataset_updates_consumed_total",
			Help: "Dataset update messages consumed by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDatasetLoad records a load attempt and, on success, the row count.
func RecordDatasetLoad(backend string, rows int, duration time.Duration, err error) {
	DatasetLoadDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		DatasetLoads.WithLabelValues(backend, "error").Inc()
		return
	}
	DatasetLoads.WithLabelValues(backend, "success").Inc()
	DatasetRows.Set(float64(rows))
}

// RecordCacheLookup counts a dataset cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		DatasetCacheHits.Inc()
	} else {
		DatasetCacheMisses.Inc()
	}
}

// RecordFilter observes the size of a page's filtered view.
func RecordFilter(page string, rows int) {
	FilterOutputRows.WithLabelValues(page).Observe(float64(rows))
}

// RecordPublish counts a dataset update publish attempt.
func RecordPublish(version int, err error) {
	if err != nil {
		DatasetUpdatesPublished.WithLabelValues("error").Inc()
		return
	}
	DatasetUpdatesPublished.WithLabelValues("success").Inc()
	DatasetVersion.Set(float64(version))
}

// RecordConsume counts a consumed update message by outcome
// ("processed", "invalid", "failed").
func RecordConsume(result string) {
	DatasetUpdatesConsumed.WithLabelValues(result).Inc()
}

// RecordSuspiciousRequest counts a request flagged by the security detector.
func RecordSuspiciousRequest(reason string) {
	SuspiciousRequests.WithLabelValues(reason).Inc()
}
