package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	errorsTotal           *prometheus.CounterVec
	auditEntriesDropped   prometheus.Counter
	scheduleConflictsSeen prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heec_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heec_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heec_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		// Audit writes are best-effort: a failed write never aborts the
		// mutation it describes, so dropped entries must stay visible here.
		auditEntriesDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heec_audit_log_dropped_total",
			Help: "Total number of activity log entries that failed to persist.",
		})

		scheduleConflictsSeen = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heec_schedule_conflicts_total",
			Help: "Total number of séance mutations rejected for overlapping windows.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, auditEntriesDropped, scheduleConflictsSeen)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// AuditDropped exposes the counter for activity log entries lost to storage failures.
func AuditDropped() prometheus.Counter {
	RegisterMetrics()
	return auditEntriesDropped
}

// ScheduleConflicts exposes the counter for rejected overlapping séances.
func ScheduleConflicts() prometheus.Counter {
	RegisterMetrics()
	return scheduleConflictsSeen
}
