package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubcontent_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hubcontent_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubcontent_booking_transitions_total",
			Help: "Booking state transitions by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	SessionsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubcontent_sessions_started_total",
			Help: "Total number of live sessions created",
		},
	)

	SessionsEndedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubcontent_sessions_ended_total",
			Help: "Total number of live sessions ended",
		},
		[]string{"reason"},
	)

	SessionCreateRacesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubcontent_session_create_races_total",
			Help: "Session creations that lost the race and returned the winner",
		},
	)

	AccessDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubcontent_access_decisions_total",
			Help: "Content access gate decisions",
		},
		[]string{"decision"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubcontent_notifications_total",
			Help: "Notifications by kind and status",
		},
		[]string{"kind", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hubcontent_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	ChangeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubcontent_change_events_total",
			Help: "Change feed events by table and direction",
		},
		[]string{"table", "direction"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubcontent_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
	)

	ContentPurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubcontent_content_purchases_total",
			Help: "Total number of one-off content purchases",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingTransition(event, outcome string) {
	BookingTransitionsTotal.WithLabelValues(event, outcome).Inc()
}

func RecordSessionStarted() {
	SessionsStartedTotal.Inc()
}

func RecordSessionEnded(reason string) {
	SessionsEndedTotal.WithLabelValues(reason).Inc()
}

func RecordSessionCreateRace() {
	SessionCreateRacesTotal.Inc()
}

func RecordAccessDecision(decision string) {
	AccessDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

func RecordChangeEvent(table, direction string) {
	ChangeEventsTotal.WithLabelValues(table, direction).Inc()
}

func RecordSubscription() {
	SubscriptionsCreatedTotal.Inc()
}

func RecordContentPurchase() {
	ContentPurchasesTotal.Inc()
}
