package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Ledger
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Transactions recorded",
		},
		[]string{"type"}, // debt|payment
	)
	TransactionsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_failed_total",
			Help: "Rejected transaction operations",
		},
		[]string{"op", "reason"},
	)
	DebtApprovals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_debt_approvals_total",
			Help: "Debt approval attempts by outcome",
		},
		[]string{"outcome"}, // confirmed|bad_code|conflict
	)
	LinkDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_decisions_total",
			Help: "Link invitations and their decisions",
		},
		[]string{"status"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call twice.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal, RequestLatency, TransactionsTotal, TransactionsFailed, DebtApprovals, LinkDecisions, WorkerQueueDepth)
	})
}
