package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medibot_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	UsersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medibot_users_created_total",
			Help: "Total accounts provisioned",
		},
	)

	MessagesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medibot_messages_total",
			Help: "Total chat messages stored",
		},
		[]string{"sender"}, // "user" or "assistant"
	)

	SummariesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medibot_summaries_total",
			Help: "Total replies carrying an escalation summary",
		},
	)

	ConversationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medibot_conversations_deleted_total",
			Help: "Total conversations deleted",
		},
	)
)
