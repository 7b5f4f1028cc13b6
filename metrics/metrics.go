// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequests counts handled requests by route template and status.
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playstore_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// httpDuration tracks request latency by route template.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playstore_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
	}, []string{"method", "route"})

	// imports counts finished imports by outcome: ok, blocked, error.
	imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playstore_imports_total",
		Help: "Total number of product imports by outcome",
	}, []string{"outcome"})

	// importDuration tracks the wall time of whole imports.
	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "playstore_import_duration_seconds",
		Help:    "Time taken by a product import",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
	})

	// fetchAttempts tracks how many attempts imports needed.
	fetchAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "playstore_import_fetch_attempts",
		Help:    "Fetch attempts used per import",
		Buckets: []float64{1, 2, 3, 5},
	})

	// metadataLookups counts fallback metadata lookups by region and outcome.
	metadataLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playstore_metadata_lookups_total",
		Help: "Total number of fallback metadata lookups by region and outcome",
	}, []string{"region", "outcome"})

	// catalogSize tracks the number of games in the catalog.
	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "playstore_catalog_games",
		Help: "Number of games in the catalog",
	})

	// tasks tracks async import tasks by status.
	tasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "playstore_import_tasks",
		Help: "Async import tasks by status",
	}, []string{"status"})
)

// RecordRequest records one handled HTTP request
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordImport records a finished import
func RecordImport(outcome string, attempts int, elapsed time.Duration) {
	imports.WithLabelValues(outcome).Inc()
	importDuration.Observe(elapsed.Seconds())
	if attempts > 0 {
		fetchAttempts.Observe(float64(attempts))
	}
}

// RecordMetadataLookup records one fallback lookup
func RecordMetadataLookup(region, outcome string) {
	metadataLookups.WithLabelValues(region, outcome).Inc()
}

// SetCatalogSize publishes the current catalog size
func SetCatalogSize(n int) {
	catalogSize.Set(float64(n))
}

// SetTaskCounts publishes task counts per status
func SetTaskCounts(counts map[string]int) {
	tasks.Reset()
	for status, n := range counts {
		tasks.WithLabelValues(status).Set(float64(n))
	}
}
