package subscription

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Period is how long one payment keeps a subscription active.
const Period = "monthly"

type Subscription struct {
	ID           string    `db:"id" json:"id"`
	SubscriberID string    `db:"subscriber_id" json:"subscriber_id"`
	InfluencerID string    `db:"influencer_id" json:"influencer_id"`
	Status       Status    `db:"status" json:"status"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (s *Subscription) ActiveAt(t time.Time) bool {
	return s.Status == StatusActive && s.ExpiresAt.After(t)
}

func expiryFrom(t time.Time) time.Time {
	return t.AddDate(0, 1, 0)
}
