/*-------------------------------------------------------------------------
 *
 * prometheus.go
 *    Prometheus metrics for NeuronFlow
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/metrics/prometheus.go
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	/* Request metrics */
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	/* Flow run metrics */
	flowRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_flow_runs_total",
			Help: "Total number of flow runs",
		},
		[]string{"flow_type", "status"},
	)

	flowRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronflow_flow_run_duration_seconds",
			Help:    "Flow run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"flow_type"},
	)

	/* Step metrics */
	stepExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_step_executions_total",
			Help: "Total number of step executions",
		},
		[]string{"action", "status"},
	)

	stepExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronflow_step_execution_duration_seconds",
			Help:    "Step execution duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"action"},
	)

	stepRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_step_retries_total",
			Help: "Total number of step retry attempts",
		},
		[]string{"action"},
	)

	/* Suggestion metrics */
	suggestionsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_suggestions_emitted_total",
			Help: "Total number of suggestions emitted",
		},
		[]string{"type", "priority"},
	)

	/* Result persistence metrics */
	resultsPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_results_persisted_total",
			Help: "Total number of test results persisted",
		},
		[]string{"status"},
	)

	/* Scheduler metrics */
	scheduledSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronflow_scheduled_sweeps_total",
			Help: "Total number of scheduled run-all sweeps",
		},
		[]string{"status"},
	)

	/* Database connection pool metrics */
	dbPoolOpenConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuronflow_db_pool_open_connections",
			Help: "Number of open database connections",
		},
		[]string{"database"},
	)

	dbPoolIdleConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuronflow_db_pool_idle_connections",
			Help: "Number of idle database connections",
		},
		[]string{"database"},
	)

	dbPoolInUseConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuronflow_db_pool_in_use_connections",
			Help: "Number of database connections in use",
		},
		[]string{"database"},
	)
)

/* RecordHTTPRequest records an HTTP request */
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	/* Convert status code to status class for better PromQL queries */
	statusClass := "unknown"
	if status >= 200 && status < 300 {
		statusClass = "2xx"
	} else if status >= 300 && status < 400 {
		statusClass = "3xx"
	} else if status >= 400 && status < 500 {
		statusClass = "4xx"
	} else if status >= 500 {
		statusClass = "5xx"
	}

	httpRequestsTotal.WithLabelValues(method, endpoint, statusClass).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

/* RecordFlowRun records a completed flow run */
func RecordFlowRun(flowType, status string, duration time.Duration) {
	flowRunsTotal.WithLabelValues(flowType, status).Inc()
	flowRunDuration.WithLabelValues(flowType).Observe(duration.Seconds())
}

/* RecordStepExecution records a step execution */
func RecordStepExecution(action, status string, duration time.Duration) {
	stepExecutionsTotal.WithLabelValues(action, status).Inc()
	stepExecutionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

/* RecordStepRetry records a step retry attempt */
func RecordStepRetry(action string) {
	stepRetriesTotal.WithLabelValues(action).Inc()
}

/* RecordSuggestionEmitted records an emitted suggestion */
func RecordSuggestionEmitted(suggestionType, priority string) {
	suggestionsEmittedTotal.WithLabelValues(suggestionType, priority).Inc()
}

/* RecordResultPersisted records a persisted test result */
func RecordResultPersisted(status string) {
	resultsPersistedTotal.WithLabelValues(status).Inc()
}

/* RecordScheduledSweep records a scheduler-triggered run-all sweep */
func RecordScheduledSweep(status string) {
	scheduledSweepsTotal.WithLabelValues(status).Inc()
}

/* RecordDBPoolStats records database connection pool statistics */
func RecordDBPoolStats(database string, openConns, idleConns, inUse int) {
	dbPoolOpenConns.WithLabelValues(database).Set(float64(openConns))
	dbPoolIdleConns.WithLabelValues(database).Set(float64(idleConns))
	dbPoolInUseConns.WithLabelValues(database).Set(float64(inUse))
}

/* Handler returns the Prometheus metrics handler */
func Handler() http.Handler {
	return promhttp.Handler()
}
