package content

import (
	"time"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/access"
)

const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusApproved      = access.StatusApproved
	StatusRejected      = "rejected"
)

type Item struct {
	ID            string    `db:"id" json:"id"`
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	Title         string    `db:"title" json:"title"`
	Body          string    `db:"body" json:"body,omitempty"`
	MediaURL      string    `db:"media_url" json:"media_url,omitempty"`
	IsFree        bool      `db:"is_free" json:"is_free"`
	IsPurchasable bool      `db:"is_purchasable" json:"is_purchasable"`
	PriceCents    int64     `db:"price_cents" json:"price_cents"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Locked is set on the way out when the viewer may not see the body.
	Locked bool `db:"-" json:"locked"`
}

func (i *Item) Gate() access.Content {
	return access.Content{OwnerID: i.OwnerID, Status: i.Status, IsFree: i.IsFree}
}

// lock strips everything a teaser must not carry.
func (i *Item) lock() {
	i.Body = ""
	i.MediaURL = ""
	i.Locked = true
}

type Purchase struct {
	UserID         string    `db:"user_id" json:"user_id"`
	ContentID      string    `db:"content_id" json:"content_id"`
	PricePaidCents int64     `db:"price_paid_cents" json:"price_paid_cents"`
	PurchasedAt    time.Time `db:"purchased_at" json:"purchased_at"`
}
