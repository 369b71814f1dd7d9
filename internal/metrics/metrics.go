package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_library_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Library index metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_library_db_queries_total",
			Help: "Total number of library database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_library_db_query_duration_seconds",
			Help:    "Library database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	LibraryFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_library_files",
			Help: "Number of indexed files by media kind",
		},
		[]string{"kind"},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_library_scan_runs_total",
			Help: "Total number of source scans",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_library_scan_duration_seconds",
			Help:    "Duration of a full source scan in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	ScanFilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_library_scan_files_processed_total",
			Help: "Total number of files processed by the scanner",
		},
	)

	ScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_library_scan_errors_total",
			Help: "Total number of files the scanner failed to stat or index",
		},
	)

	ScanWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_library_scan_workers",
			Help: "Number of parallel scan workers in use",
		},
	)
)

// Smart playlist metrics
var (
	PlaylistEvaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_library_playlist_evaluations_total",
			Help: "Total number of smart playlist evaluations",
		},
	)

	PlaylistEvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_library_playlist_evaluation_duration_seconds",
			Help:    "Smart playlist evaluation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	RuleFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_library_rule_failures_total",
			Help: "Rules that could not be evaluated, by reason",
		},
		[]string{"reason"},
	)
)

// Enrichment metrics
var (
	EnrichmentLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_library_enrichment_lookups_total",
			Help: "Provider lookups by provider and cache outcome",
		},
		[]string{"provider", "outcome"}, // outcome: hit, miss, error
	)

	EnrichmentLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_library_enrichment_lookup_duration_seconds",
			Help:    "Provider lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

// Cover generation metrics
var (
	CoversGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_library_covers_generated_total",
			Help: "Covers generated by backend and status",
		},
		[]string{"backend", "status"}, // backend: vips, imaging
	)

	CoverGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_library_cover_generation_duration_seconds",
			Help:    "Cover generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)
