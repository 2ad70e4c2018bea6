package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/bookings", "201", 0.25)
	RecordHTTPRequest("POST", "/bookings", "201", 0.1)
	RecordHTTPRequest("POST", "/bookings", "400", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/bookings", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/bookings", "400")))
}

func TestRecordBookingTransition(t *testing.T) {
	BookingTransitionsTotal.Reset()

	RecordBookingTransition("approve", "ok")
	RecordBookingTransition("approve", "invalid_transition")
	RecordBookingTransition("approve", "ok")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("approve", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("approve", "invalid_transition")))
}

func TestRecordSessionStarted(t *testing.T) {
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hubcontent_sessions_started_total_test",
		Help: "Total number of live sessions created",
	})

	old := SessionsStartedTotal
	SessionsStartedTotal = testCounter
	defer func() { SessionsStartedTotal = old }()

	RecordSessionStarted()
	RecordSessionStarted()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestRecordSessionEnded(t *testing.T) {
	SessionsEndedTotal.Reset()

	RecordSessionEnded("timeout")
	RecordSessionEnded("ended_by_influencer")
	RecordSessionEnded("timeout")

	assert.Equal(t, float64(2), testutil.ToFloat64(SessionsEndedTotal.WithLabelValues("timeout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SessionsEndedTotal.WithLabelValues("ended_by_influencer")))
}

func TestRecordAccessDecision(t *testing.T) {
	AccessDecisionsTotal.Reset()

	RecordAccessDecision("allowed_free")
	RecordAccessDecision("denied")

	assert.Equal(t, float64(1), testutil.ToFloat64(AccessDecisionsTotal.WithLabelValues("allowed_free")))
	assert.Equal(t, float64(1), testutil.ToFloat64(AccessDecisionsTotal.WithLabelValues("denied")))
}

func TestRecordNotification(t *testing.T) {
	NotificationsTotal.Reset()

	RecordNotification("booking_approved", "queued")
	RecordNotification("booking_approved", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(NotificationsTotal.WithLabelValues("booking_approved", "queued")))
	assert.Equal(t, float64(1), testutil.ToFloat64(NotificationsTotal.WithLabelValues("booking_approved", "failed")))
}

func TestNotificationQueueLength(t *testing.T) {
	NotificationQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(NotificationQueueLength))

	NotificationQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(NotificationQueueLength))
}

func TestRecordChangeEvent(t *testing.T) {
	ChangeEventsTotal.Reset()

	RecordChangeEvent("bookings", "published")
	RecordChangeEvent("bookings", "received")

	assert.Equal(t, float64(1), testutil.ToFloat64(ChangeEventsTotal.WithLabelValues("bookings", "published")))
}
