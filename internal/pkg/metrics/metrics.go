package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travelhub_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_registrations_total",
			Help: "Registration attempts by role and result",
		},
		[]string{"role", "result"},
	)

	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_moderation_actions_total",
			Help: "Moderation actions applied by entity and action",
		},
		[]string{"entity", "action"},
	)

	OutboxDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_outbox_events_total",
			Help: "Outbox events delivered by kind and result",
		},
		[]string{"kind", "result"},
	)

	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travelhub_realtime_connections",
			Help: "Open notification websocket connections",
		},
	)
)
