package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LLMCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyforge_llm_calls_total",
		Help: "Upstream LLM calls by provider, operation, and outcome.",
	}, []string{"provider", "operation", "outcome"})

	LLMCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyforge_llm_call_duration_seconds",
		Help:    "Upstream LLM call latency.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"provider", "operation"})

	CardsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyforge_cards_generated_total",
		Help: "Flashcards returned by successful generation calls.",
	})

	DecksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyforge_decks_created_total",
		Help: "Decks created through the API.",
	})
)

// ObserveLLMCall records one upstream call. Outcome is "ok" or the domain
// error code when the call failed.
func ObserveLLMCall(provider, operation, outcome string, seconds float64) {
	LLMCallsTotal.WithLabelValues(provider, operation, outcome).Inc()
	LLMCallDuration.WithLabelValues(provider, operation).Observe(seconds)
}
