package session

import (
	"time"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
)

type EndReason string

const (
	EndTimeout          EndReason = "timeout"
	EndByInfluencer     EndReason = "ended_by_influencer"
	EndBookingCancelled EndReason = "booking_cancelled"
)

type Session struct {
	ID           string     `db:"id" json:"id"`
	SessionToken string     `db:"session_token" json:"session_token"`
	BookingID    string     `db:"booking_id" json:"booking_id"`
	InfluencerID string     `db:"influencer_id" json:"influencer_id"`
	SubscriberID string     `db:"subscriber_id" json:"subscriber_id"`
	EndsAt       time.Time  `db:"ends_at" json:"ends_at"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	EndedAt      *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	EndReason    *string    `db:"end_reason" json:"end_reason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

func (s *Session) IsParty(actorID string) bool {
	return actorID != "" && (actorID == s.InfluencerID || actorID == s.SubscriberID)
}

// JoinResult is the outcome of EnsureSession. Waiting means the subscriber
// arrived before the influencer opened the session.
type JoinResult struct {
	Session          *Session   `json:"session,omitempty"`
	Role             actor.Role `json:"role"`
	Waiting          bool       `json:"waiting"`
	Created          bool       `json:"created"`
	RemainingSeconds int64      `json:"remaining_seconds"`
}

type TickResult struct {
	Session          *Session `json:"session"`
	RemainingSeconds int64    `json:"remaining_seconds"`
	Ended            bool     `json:"ended"`
}
