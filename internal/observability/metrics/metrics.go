package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "notifyaudit_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	resolveRequests *prometheus.CounterVec
	resolveLatency  *prometheus.HistogramVec

	zabbixRequests *prometheus.CounterVec

	reportExports  *prometheus.CounterVec
	actionsSkipped prometheus.Counter
)

// Init registers the tool's metrics and, when an audit database is
// configured, a DB-backed gauge for stored audit entries.
func Init(db *sql.DB, logger *zap.Logger) {
	registerOnce.Do(func() {
		resolveRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "resolve_requests_total",
				Help: "Total routing resolution requests by result",
			},
			[]string{"result"},
		)
		resolveLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "resolve_latency_seconds",
				Help:    "Routing resolution latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		zabbixRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "zabbix_requests_total",
				Help: "Total monitoring API calls by method and result",
			},
			[]string{"method", "result"},
		)

		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total report exports by format",
			},
			[]string{"format"},
		)
		actionsSkipped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "actions_skipped_total",
				Help: "Total actions excluded from a report because their filter could not be evaluated",
			},
		)

		prometheus.MustRegister(
			resolveRequests,
			resolveLatency,
			zabbixRequests,
			reportExports,
			actionsSkipped,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveResolve records one resolution request's duration and result.
func ObserveResolve(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if resolveRequests != nil {
		resolveRequests.WithLabelValues(result).Inc()
	}
	if resolveLatency != nil {
		resolveLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncZabbixRequest increments the monitoring API call counter.
func IncZabbixRequest(method, result string) {
	if method == "" {
		method = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if zabbixRequests != nil {
		zabbixRequests.WithLabelValues(method, result).Inc()
	}
}

// IncReportExport increments the export counter for a format.
func IncReportExport(format string) {
	if format == "" {
		format = "unknown"
	}
	if reportExports != nil {
		reportExports.WithLabelValues(format).Inc()
	}
}

// AddActionsSkipped increments the skipped-action counter by count.
func AddActionsSkipped(count int) {
	if count <= 0 {
		return
	}
	if actionsSkipped != nil {
		actionsSkipped.Add(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
