package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	EntriesRecorded   *prometheus.CounterVec
	EntriesDeleted    prometheus.Counter
	DeductionsApplied prometheus.Counter
	DeductionAmount   prometheus.Histogram
	UndoTotal         prometheus.Counter
	RedoTotal         prometheus.Counter
	BalanceErrors     *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Repository metrics
	RepoOperations *prometheus.CounterVec
	RepoDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numledger_entries_recorded_total",
				Help: "Total number of entries recorded, by entry type",
			},
			[]string{"entry_type"},
		),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "numledger_entries_deleted_total",
			Help: "Total number of entries deleted",
		}),
		DeductionsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "numledger_deductions_applied_total",
			Help: "Total number of filter deduction entries created",
		}),
		DeductionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "numledger_deduction_amount",
			Help:    "Combined PKR amount per deduction pass",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),
		UndoTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "numledger_undo_total",
			Help: "Total number of undone actions",
		}),
		RedoTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "numledger_redo_total",
			Help: "Total number of redone actions",
		}),
		BalanceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numledger_balance_errors_total",
				Help: "Balance failures by type",
			},
			[]string{"error_type"},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "numledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RepoOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numledger_repo_operations_total",
				Help: "Repository operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RepoDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "numledger_repo_duration_seconds",
				Help:    "Repository operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}
