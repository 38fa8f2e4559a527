package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_turns_total",
			Help: "Total number of completed conversation turns by answer path.",
		},
		[]string{"path"},
	)
	turnFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_turn_failures_total",
			Help: "Total number of turn-internal failures converted to user-facing answers.",
		},
		[]string{"stage"},
	)
	unsafeQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdb_unsafe_queries_total",
			Help: "Total number of synthesized queries rejected by the safety validator.",
		},
	)
	defaultProposalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdb_default_proposals_total",
			Help: "Total number of turns that fell back to the default query proposal.",
		},
	)
	completionLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdb_completion_latency_seconds",
			Help:    "Completion service round-trip latency by pipeline stage.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)
	storeQueryLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdb_store_query_latency_seconds",
			Help:    "Relational store query latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	memoryTurns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "askdb_memory_turns",
			Help: "Current number of turns held in conversation memory.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		turnsTotal,
		turnFailuresTotal,
		unsafeQueriesTotal,
		defaultProposalsTotal,
		completionLatencySeconds,
		storeQueryLatencySeconds,
		memoryTurns,
	)
}

func ObserveTurn(path string) {
	turnsTotal.WithLabelValues(path).Inc()
}

func IncrementTurnFailure(stage string) {
	turnFailuresTotal.WithLabelValues(stage).Inc()
}

func IncrementUnsafeQuery() {
	unsafeQueriesTotal.Inc()
}

func IncrementDefaultProposal() {
	defaultProposalsTotal.Inc()
}

func ObserveCompletion(stage string, elapsed time.Duration) {
	completionLatencySeconds.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func ObserveStoreQuery(elapsed time.Duration) {
	storeQueryLatencySeconds.Observe(elapsed.Seconds())
}

func SetMemoryTurns(count int) {
	if count < 0 {
		count = 0
	}
	memoryTurns.Set(float64(count))
}
