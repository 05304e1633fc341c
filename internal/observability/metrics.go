package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	sessionExchanges prometheus.Gauge
	sessionEvictions prometheus.Counter

	toolExecutionTotal    *prometheus.CounterVec
	toolExecutionDuration *prometheus.HistogramVec
	toolErrorsTotal       *prometheus.CounterVec

	httpRequestsTotal *prometheus.CounterVec

	agentRunTotal    *prometheus.CounterVec
	agentRunDuration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			sessionExchanges: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "session_exchanges",
					Help: "Current number of exchanges held in the session store.",
				},
			),
			sessionEvictions: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "session_evictions_total",
					Help: "Total exchanges evicted from the session store.",
				},
			),
			toolExecutionTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tool_execution_total",
					Help: "Total tool executions by tool and status.",
				},
				[]string{"tool", "status"},
			),
			toolExecutionDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "tool_execution_duration_seconds",
					Help:    "Tool execution duration in seconds by tool.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"tool"},
			),
			toolErrorsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tool_errors_total",
					Help: "Total tool execution errors by tool.",
				},
				[]string{"tool"},
			),
			httpRequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "api_http_requests_total",
					Help: "Total outbound API requests by method and status.",
				},
				[]string{"method", "status"},
			),
			agentRunTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "agent_run_total",
					Help: "Total agent runs by provider and status.",
				},
				[]string{"provider", "status"},
			),
			agentRunDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "agent_run_duration_seconds",
					Help:    "Agent run duration in seconds by provider.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider"},
			),
		}

		prometheus.MustRegister(
			m.sessionExchanges,
			m.sessionEvictions,
			m.toolExecutionTotal,
			m.toolExecutionDuration,
			m.toolErrorsTotal,
			m.httpRequestsTotal,
			m.agentRunTotal,
			m.agentRunDuration,
		)

		metricsInst = m
	})
	return metricsInst
}

// EnsureRegistered forces metric registration. Safe to call repeatedly.
func EnsureRegistered() {
	getMetrics()
}

// MetricsHandler returns an HTTP handler exposing the default registry.
func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

// SetSessionExchanges records the current session store size.
func SetSessionExchanges(count int) {
	getMetrics().sessionExchanges.Set(float64(count))
}

// RecordSessionEviction counts exchanges dropped by FIFO eviction.
func RecordSessionEviction(count int) {
	getMetrics().sessionEvictions.Add(float64(count))
}

// RecordToolExecution records a tool execution outcome.
func RecordToolExecution(tool string, duration time.Duration, success bool) {
	m := getMetrics()
	status := "success"
	if !success {
		status = "error"
		m.toolErrorsTotal.WithLabelValues(tool).Inc()
	}
	m.toolExecutionTotal.WithLabelValues(tool, status).Inc()
	m.toolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordHTTPRequest records an outbound API request outcome.
func RecordHTTPRequest(method string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	getMetrics().httpRequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordAgentRun records an agent run outcome.
func RecordAgentRun(provider string, duration time.Duration, success bool) {
	m := getMetrics()
	status := "success"
	if !success {
		status = "error"
	}
	m.agentRunTotal.WithLabelValues(provider, status).Inc()
	m.agentRunDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
