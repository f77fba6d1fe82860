package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	MintsTotal       prometheus.Counter
	BurnsTotal       prometheus.Counter
	TransfersCreated prometheus.Counter
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram
	LedgerErrors     *prometheus.CounterVec

	// Accrual metrics
	SettlementsTotal prometheus.Counter
	InterestAccrued  prometheus.Counter
	GlobalRate       prometheus.Gauge

	// Bridge metrics
	PacketsSent     prometheus.Counter
	PacketsReceived prometheus.Counter
	PacketsDeduped  prometheus.Counter
	RelayErrors     *prometheus.CounterVec

	// Custody metrics
	DepositsTotal    prometheus.Counter
	RedemptionsTotal prometheus.Counter
	CustodyFailures  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		MintsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_mints_total",
			Help: "Total number of mint operations",
		}),
		BurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_burns_total",
			Help: "Total number of burn operations",
		}),
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "yieldledger_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "yieldledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		LedgerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_ledger_errors_total",
				Help: "Total number of ledger errors by type",
			},
			[]string{"error_type"},
		),

		// Accrual metrics
		SettlementsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_settlements_total",
			Help: "Total number of account settlements",
		}),
		InterestAccrued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_interest_accrued_units_total",
			Help: "Total interest units materialized into principal",
		}),
		GlobalRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "yieldledger_global_rate",
			Help: "Current global rate in scaled units",
		}),

		// Bridge metrics
		PacketsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_bridge_packets_sent_total",
			Help: "Total cross-ledger packets burned and queued",
		}),
		PacketsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_bridge_packets_received_total",
			Help: "Total cross-ledger packets minted",
		}),
		PacketsDeduped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_bridge_packets_deduped_total",
			Help: "Total duplicate packet deliveries ignored",
		}),
		RelayErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_relay_errors_total",
				Help: "Total relay delivery errors by peer",
			},
			[]string{"peer"},
		),

		// Custody metrics
		DepositsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_deposits_total",
			Help: "Total custody deposits",
		}),
		RedemptionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_redemptions_total",
			Help: "Total custody redemptions",
		}),
		CustodyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yieldledger_custody_failures_total",
			Help: "Total failed custody asset transfers",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yieldledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yieldledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "yieldledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
