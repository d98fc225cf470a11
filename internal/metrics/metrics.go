// Package metrics provides Prometheus metrics for the SchoolHub backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schoolhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Photo Pipeline Metrics
	PhotoIngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_photo_ingests_total",
			Help: "Photo ingestion attempts by source and result",
		},
		[]string{"source", "result"}, // source: "file", "base64", "none"; result: "success", "rejected", "failed"
	)

	PhotoProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "schoolhub_photo_processing_duration_seconds",
			Help:    "Time taken to validate, normalize and store a photo",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	PhotoBytesIn = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "schoolhub_photo_bytes_in",
			Help:    "Size of accepted photo payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
		},
	)

	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_thumbnails_total",
			Help: "Thumbnail generation attempts by result",
		},
		[]string{"result"}, // "success", "missing", "failed"
	)

	// Auth Metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success", "failed", "throttled"
	)

	// Roster Metrics
	StudentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schoolhub_students_total",
			Help: "Number of enrolled students",
		},
	)

	StudentsByClass = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "schoolhub_students_by_class",
			Help: "Number of enrolled students by class",
		},
		[]string{"class"},
	)

	FeesOutstandingTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schoolhub_fees_outstanding_total",
			Help: "Total outstanding fee balance across all students",
		},
	)

	AttendanceSummariesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schoolhub_attendance_summaries_total",
			Help: "Daily attendance summary rows written by the summary worker",
		},
	)

	// QR Code Metrics
	QRCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schoolhub_qr_cache_hits_total",
			Help: "ID-card QR code cache hit count",
		},
	)

	QRCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schoolhub_qr_cache_misses_total",
			Help: "ID-card QR code cache miss count",
		},
	)
)
