// Package window computes when a booking may be created, joined and must end.
// Every function is pure; callers pass "now".
package window

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MinimumLeadTime is the gap required between creating a booking and its start.
	MinimumLeadTime = 5 * time.Minute
	// EarlyJoin is how long before the start either party may enter.
	EarlyJoin = 5 * time.Minute
	// InfluencerGrace is how late the influencer may still start the session.
	InfluencerGrace = 10 * time.Minute
)

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock accepts "HH:MM" or "HH:MM:SS" and returns the offset from midnight.
func ParseClock(clock string) (time.Duration, error) {
	clock = strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", clock)
}

// ScheduledInstant combines a calendar date and a time of day in loc.
// Only the year, month and day of date are used.
func ScheduledInstant(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(offset), nil
}

// CanCreateBooking reports whether start leaves at least MinimumLeadTime from now.
func CanCreateBooking(start, now time.Time) bool {
	return start.Sub(now) >= MinimumLeadTime
}

// CanInfluencerJoin measures both bounds from the scheduled time, not from
// when the influencer shows up.
func CanInfluencerJoin(start, now time.Time) bool {
	until := start.Sub(now)
	return until <= EarlyJoin && until >= -InfluencerGrace
}

// CanSubscriberJoin is open from EarlyJoin before the start until the
// scheduled end; joining late shortens the session.
func CanSubscriberJoin(start, now time.Time, durationMinutes int) bool {
	return start.Sub(now) <= EarlyJoin && now.Sub(start) <= minutes(durationMinutes)
}

// SubscriberWindowClosed is true once the scheduled end has passed.
func SubscriberWindowClosed(start, now time.Time, durationMinutes int) bool {
	return now.Sub(start) > minutes(durationMinutes)
}

// SubscriberEndsAt is the scheduled end; a subscriber's countdown never runs past it.
func SubscriberEndsAt(start time.Time, durationMinutes int) time.Time {
	return start.Add(minutes(durationMinutes))
}

// SessionEndsAt is the authoritative end of a session opened at sessionCreatedAt.
func SessionEndsAt(sessionCreatedAt time.Time, durationMinutes int) time.Time {
	return sessionCreatedAt.Add(minutes(durationMinutes))
}

// Remaining is clamped at zero.
func Remaining(endsAt, now time.Time) time.Duration {
	if d := endsAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Expired reports whether now has reached endsAt.
func Expired(endsAt, now time.Time) bool {
	return !now.Before(endsAt)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
