package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func TestParseClock(t *testing.T) {
	d, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*time.Hour+30*time.Minute, d)

	d, err = ParseClock("07:05:09")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+5*time.Minute+9*time.Second, d)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("")
	assert.Error(t, err)
}

func TestScheduledInstant(t *testing.T) {
	date := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	got, err := ScheduledInstant(date, "18:00:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	loc := time.FixedZone("BRT", -3*3600)
	got, err = ScheduledInstant(date, "18:00", loc)
	require.NoError(t, err)
	assert.Equal(t, base.Add(3*time.Hour), got.UTC())

	got, err = ScheduledInstant(date, "18:00", nil)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestCanCreateBooking(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"an hour ahead", base.Add(-time.Hour), true},
		{"exactly lead time", base.Add(-5 * time.Minute), true},
		{"just under lead time", base.Add(-5*time.Minute + time.Second), false},
		{"in the past", base.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreateBooking(base, tt.now))
		})
	}
}

func TestCanInfluencerJoin(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"six minutes early", base.Add(-6 * time.Minute), false},
		{"five minutes early", base.Add(-5 * time.Minute), true},
		{"on time", base, true},
		{"ten minutes late", base.Add(10 * time.Minute), true},
		{"eleven minutes late", base.Add(11 * time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanInfluencerJoin(base, tt.now))
		})
	}
}

func TestCanSubscriberJoin(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"six minutes early", base.Add(-6 * time.Minute), false},
		{"five minutes early", base.Add(-5 * time.Minute), true},
		{"mid session", base.Add(10 * time.Minute), true},
		{"at scheduled end", base.Add(15 * time.Minute), true},
		{"after scheduled end", base.Add(16 * time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSubscriberJoin(base, tt.now, 15))
		})
	}
	assert.True(t, SubscriberWindowClosed(base, base.Add(16*time.Minute), 15))
	assert.False(t, SubscriberWindowClosed(base, base.Add(-time.Hour), 15))
}

func TestLateInfluencerDoesNotExtendSubscriberWindow(t *testing.T) {
	// influencer starts 10 minutes late on a 15 minute booking: the subscriber
	// may still join only until the scheduled end.
	late := base.Add(10 * time.Minute)
	assert.True(t, CanInfluencerJoin(base, late))
	assert.False(t, CanSubscriberJoin(base, base.Add(16*time.Minute), 15))
	assert.True(t, SubscriberEndsAt(base, 15).Before(SessionEndsAt(late, 15)))
}

func TestBookingScenario(t *testing.T) {
	created := base
	start := created.Add(10 * time.Minute)

	require.True(t, CanCreateBooking(start, created))
	assert.False(t, CanInfluencerJoin(start, created.Add(4*time.Minute)))
	assert.True(t, CanInfluencerJoin(start, created.Add(5*time.Minute)))
	assert.True(t, CanInfluencerJoin(start, created.Add(9*time.Minute)))

	joined := created.Add(9 * time.Minute)
	assert.Equal(t, created.Add(24*time.Minute), SessionEndsAt(joined, 15))
}

func TestRemainingAndExpired(t *testing.T) {
	ends := base.Add(15 * time.Minute)
	assert.Equal(t, 5*time.Minute, Remaining(ends, base.Add(10*time.Minute)))
	assert.Equal(t, time.Duration(0), Remaining(ends, base.Add(20*time.Minute)))
	assert.False(t, Expired(ends, base.Add(14*time.Minute)))
	assert.True(t, Expired(ends, ends))
}
