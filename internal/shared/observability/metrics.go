package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tsreap_scan_seconds",
		Help:    "Time spent scanning a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tsreap_files_scanned_total",
		Help: "Number of files processed in the last run.",
	})

	FilesSkipped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tsreap_files_skipped_total",
		Help: "Number of files skipped due to read errors in the last run.",
	})

	OccurrencesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tsreap_occurrences_total",
		Help: "Identifier occurrences scanned in the last run.",
	})

	DeclarationsFound = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tsreap_declarations_total",
		Help: "Declarations found in the last run.",
	}, []string{"kind"})

	UnusedDeclarations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tsreap_unused_declarations_total",
		Help: "Unused declarations found in the last run.",
	}, []string{"kind"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tsreap_run_seconds",
		Help:    "Time spent on run phases.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsreap_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherRescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsreap_watcher_rescans_total",
		Help: "Total number of rescans triggered by the watcher.",
	})

	WatcherRescansThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsreap_watcher_rescans_throttled_total",
		Help: "Total number of rescans suppressed by the rate limiter.",
	})

	HistoryWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsreap_history_writes_total",
		Help: "Total number of run summaries persisted to the history store.",
	})

	HistoryWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsreap_history_write_errors_total",
		Help: "Total number of history persistence errors.",
	})
)
