// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMCallDuration tracks language-model call duration.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Language-model call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"purpose", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// MessagesTotal tracks inbound chat messages by how they were handled.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Inbound chat messages by outcome",
		},
		[]string{"kind"},
	)

	// PurchasesTotal tracks purchase commands by outcome.
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Purchase commands by outcome",
		},
		[]string{"outcome"},
	)

	// SessionsActive tracks sessions held by the session store.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of live dialogue sessions",
		},
	)

	// SessionsEvicted tracks sessions removed by the idle sweep.
	SessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_evicted_total",
			Help: "Sessions removed by the idle sweep",
		},
	)

	// OrderEventsTotal tracks order events flowing through the Redis queue.
	OrderEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_total",
			Help: "Order events published and consumed",
		},
		[]string{"type", "stage"},
	)

	// ConversationLogFailures tracks best-effort log appends that failed.
	ConversationLogFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_log_failures_total",
			Help: "Conversation log appends that failed",
		},
		[]string{"sink"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMCall records metrics for a single completion request.
func RecordLLMCall(purpose, status, model string, duration float64, tokensIn, tokensOut int) {
	LLMCallDuration.WithLabelValues(purpose, status).Observe(duration)
	if model == "" {
		return
	}
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordMessage counts an inbound message by kind.
func RecordMessage(kind string) {
	MessagesTotal.WithLabelValues(kind).Inc()
}

// RecordPurchase counts a purchase command outcome.
func RecordPurchase(outcome string) {
	PurchasesTotal.WithLabelValues(outcome).Inc()
}
