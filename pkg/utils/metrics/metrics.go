package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsflow_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docsflow_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// WebhookDeliveries counts push deliveries by outcome: accepted, rejected, skipped, invalid
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsflow_webhook_deliveries_total",
		Help: "Total number of webhook deliveries by outcome",
	}, []string{"outcome"})

	// CommitsProcessed counts commits by pipeline result: saved, skipped, failed
	CommitsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsflow_commits_processed_total",
		Help: "Total number of commits run through the changelog pipeline",
	}, []string{"result"})

	// Summaries counts generated summaries by method: llm, fallback
	Summaries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsflow_summaries_total",
		Help: "Total number of commit summaries by generation method",
	}, []string{"method"})

	FeedFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsflow_source_fetch_errors_total",
		Help: "Total number of failed content source fetches",
	}, []string{"source"})
)
