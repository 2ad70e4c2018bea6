package profile

import "time"

const (
	TypeInfluencer = "influencer"
	TypeSubscriber = "subscriber"
	TypeAdmin      = "admin"

	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"

	KYCNone      = "none"
	KYCSubmitted = "submitted"
	KYCVerified  = "verified"
	KYCRejected  = "rejected"
)

type Profile struct {
	ID                           string    `db:"id" json:"id"`
	Email                        string    `db:"email" json:"-"`
	DisplayName                  string    `db:"display_name" json:"display_name"`
	UserType                     string    `db:"user_type" json:"user_type"`
	AccountStatus                string    `db:"account_status" json:"account_status"`
	KYCStatus                    string    `db:"kyc_status" json:"kyc_status"`
	StreamingPricePerMinuteCents int64     `db:"streaming_price_per_minute_cents" json:"streaming_price_per_minute_cents"`
	SubscriptionPriceCents       int64     `db:"subscription_price_cents" json:"subscription_price_cents"`
	CreatedAt                    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                    time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) IsInfluencer() bool {
	return p.UserType == TypeInfluencer
}

// CanSell is true for an influencer that may take bookings and subscribers.
func (p *Profile) CanSell() bool {
	return p.IsInfluencer() && p.AccountStatus == StatusActive && p.KYCStatus == KYCVerified
}

