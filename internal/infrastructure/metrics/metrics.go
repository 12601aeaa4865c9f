package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal metrics
	EntriesPosted  *prometheus.CounterVec
	PostDuration   prometheus.Histogram
	PostingErrors  *prometheus.CounterVec
	EntryLineCount prometheus.Histogram

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Workflow metrics
	ContributionBatches *prometheus.CounterVec
	ContributionAmount  *prometheus.CounterVec
	ExpenseTransitions  *prometheus.CounterVec

	// Idempotency metrics
	IdempotentReplays *prometheus.CounterVec
	IdempotencyPurged prometheus.Counter

	// Ledger health
	BalanceDrift    prometheus.Gauge
	BalancesRebuilt prometheus.Counter
	OutboxPublished *prometheus.CounterVec
	OutboxFailed    *prometheus.CounterVec
	StoreRetries    *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Journal metrics
		EntriesPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_journal_entries_posted_total",
				Help: "Total number of journal entries posted by source",
			},
			[]string{"source"},
		),
		PostDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "treasury_journal_post_duration_seconds",
			Help:    "Duration of journal posting transactions",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_journal_post_errors_total",
				Help: "Total number of rejected postings by error code",
			},
			[]string{"code"},
		),
		EntryLineCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "treasury_journal_entry_lines",
			Help:    "Number of lines per posted journal entry",
			Buckets: []float64{2, 3, 4, 6, 10, 20, 50},
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Workflow metrics
		ContributionBatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_contribution_batches_total",
				Help: "Contribution batches by lifecycle step",
			},
			[]string{"status"},
		),
		ContributionAmount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_contribution_amount_total",
				Help: "Posted contribution amounts by method",
			},
			[]string{"method"},
		),
		ExpenseTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_expense_transitions_total",
				Help: "Expense state transitions by target state",
			},
			[]string{"state"},
		),

		// Idempotency metrics
		IdempotentReplays: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_idempotent_replays_total",
				Help: "Requests answered from a recorded idempotency key",
			},
			[]string{"scope"},
		),
		IdempotencyPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_idempotency_records_purged_total",
			Help: "Expired idempotency records deleted",
		}),

		// Ledger health
		BalanceDrift: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "treasury_balance_drift_accounts",
			Help: "Accounts whose cached balance differs from the journal at the last verification",
		}),
		BalancesRebuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_balances_rebuilt_total",
			Help: "Number of balance rebuild passes",
		}),
		OutboxPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_outbox_events_published_total",
				Help: "Outbox events delivered by event type",
			},
			[]string{"event_type"},
		),
		OutboxFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_outbox_events_failed_total",
				Help: "Outbox delivery attempts that failed by event type",
			},
			[]string{"event_type"},
		),
		StoreRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_store_retries_total",
				Help: "Transient store failures that were retried",
			},
			[]string{"reason"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treasury_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treasury_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
