package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Deposit metrics
	DepositsCreated prometheus.Counter
	DepositsDeleted prometheus.Counter
	DepositAmount   prometheus.Histogram

	// Inspection metrics
	InspectionsStarted   prometheus.Counter
	InspectionsCompleted prometheus.Counter
	SettlementDuration   prometheus.Histogram

	// Deduction metrics
	DeductionsAdded   prometheus.Counter
	DeductionsRemoved prometheus.Counter
	DisputesRaised    prometheus.Counter

	// Refund metrics
	RefundsProcessed *prometheus.CounterVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		DepositsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_deposits_created_total",
			Help: "Total number of deposit escrow records created",
		}),
		DepositsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_deposits_deleted_total",
			Help: "Total number of deposit records deleted pre-refund",
		}),
		DepositAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentledger_deposit_amount",
			Help:    "Deposit amounts at creation",
			Buckets: []float64{100, 1000, 5000, 10000, 25000, 50000, 100000},
		}),

		InspectionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_inspections_started_total",
			Help: "Total number of move-out inspections started",
		}),
		InspectionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_inspections_completed_total",
			Help: "Total number of move-out inspections completed",
		}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentledger_settlement_duration_seconds",
			Help:    "Duration of inspection finalization",
			Buckets: prometheus.DefBuckets,
		}),

		DeductionsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_deductions_added_total",
			Help: "Total number of deduction items added",
		}),
		DeductionsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_deductions_removed_total",
			Help: "Total number of deduction items removed",
		}),
		DisputesRaised: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_disputes_raised_total",
			Help: "Total number of deduction disputes raised",
		}),

		RefundsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_refunds_processed_total",
				Help: "Total refunds processed by terminal status",
			},
			[]string{"outcome"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentledger_db_duration_seconds",
				Help:    "Database query duration by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_db_errors_total",
				Help: "Total database errors by operation",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_redis_operations_total",
				Help: "Total Redis operations by type",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_redis_errors_total",
				Help: "Total Redis errors by operation",
			},
			[]string{"operation"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_events_published_total",
			Help: "Total outbox events published",
		}),
		EventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_events_failed_total",
			Help: "Total outbox events that failed to publish",
		}),
	}
}
