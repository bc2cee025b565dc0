package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportmeet_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sportmeet_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportmeet_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportmeet_chat_messages_total",
		Help: "Chat messages appended.",
	})

	LiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportmeet_live_connections",
		Help: "Currently connected live-channel clients.",
	})

	NotificationsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportmeet_notifications_delivered_total",
		Help: "Frames queued to subscribed clients.",
	})

	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportmeet_notifications_dropped_total",
		Help: "Clients dropped because their send buffer was full.",
	})
)

// Registration outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeSelfHost = "self_host"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)
