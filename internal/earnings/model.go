package earnings

import "time"

// Entry credits one completed booking to its influencer.
type Entry struct {
	ID           string    `db:"id" json:"id"`
	InfluencerID string    `db:"influencer_id" json:"influencer_id"`
	BookingID    string    `db:"booking_id" json:"booking_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Summary struct {
	InfluencerID string  `json:"influencer_id"`
	TotalCents   int64   `json:"total_cents"`
	Entries      []Entry `json:"entries"`
}
