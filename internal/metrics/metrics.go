// Package metrics holds the prometheus collectors shared across arise.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisRuns counts analysis runs by data source (live, synthetic, default).
	AnalysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arise_analysis_runs_total",
		Help: "Analysis runs by data source",
	}, []string{"source"})

	// SnapshotsRecorded counts history snapshots written to the store.
	SnapshotsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arise_snapshots_recorded_total",
		Help: "History snapshots appended to the store",
	})

	// StoreFallbacks counts operations served from synthetic or empty data.
	StoreFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arise_store_fallbacks_total",
		Help: "Operations that fell back because the store was unavailable or a query failed",
	}, []string{"operation", "reason"})

	// PathSearches counts A* searches by outcome.
	PathSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arise_path_searches_total",
		Help: "A* searches by outcome",
	}, []string{"result"})

	// Commands counts dispatched conversational commands by kind.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arise_commands_total",
		Help: "Conversational commands by kind",
	}, []string{"kind"})

	// AskRequests counts calls to the question-answering collaborator.
	AskRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arise_ask_requests_total",
		Help: "Question-answering collaborator calls by result",
	}, []string{"result"})

	// HTTPRequestDuration observes handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arise_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
