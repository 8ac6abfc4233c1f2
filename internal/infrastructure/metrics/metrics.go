package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublished counts publish attempts by routing key and outcome
	// (ok, error, dropped).
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_events_published_total",
		Help: "Domain events published to the broker",
	}, []string{"routing_key", "status"})

	// EventsConsumed counts deliveries by routing key and outcome
	// (ok, parse_error, unknown).
	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_events_consumed_total",
		Help: "Domain events received from the notification queue",
	}, []string{"routing_key", "status"})

	// EmailsSent counts transport invocations by mode (smtp, simulated)
	// and outcome (ok, error).
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_emails_sent_total",
		Help: "Notification emails handed to the mail transport",
	}, []string{"mode", "status"})

	// NotificationsSkipped counts dispatcher skips by reason
	// (no_recipient).
	NotificationsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_notifications_skipped_total",
		Help: "Events that produced no email",
	}, []string{"routing_key", "reason"})
)
