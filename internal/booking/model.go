package booking

import (
	"time"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/window"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
)

type transition struct {
	from Status
	to   Status
}

var transitions = map[Event]transition{
	EventApprove:  {from: StatusPending, to: StatusApproved},
	EventReject:   {from: StatusPending, to: StatusRejected},
	EventCancel:   {from: StatusApproved, to: StatusCancelled},
	EventComplete: {from: StatusApproved, to: StatusCompleted},
}

// PlatformFeePercent is withheld from every booking price.
const PlatformFeePercent = 10

var AllowedDurations = []int{5, 10, 15, 30, 45, 60}

func ValidDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

func InfluencerEarnings(priceCents int64) int64 {
	return priceCents - priceCents*PlatformFeePercent/100
}

const dateLayout = "2006-01-02"

type Booking struct {
	ID                      string     `db:"id" json:"id"`
	SubscriberID            string     `db:"subscriber_id" json:"subscriber_id"`
	InfluencerID            string     `db:"influencer_id" json:"influencer_id"`
	ScheduledDate           time.Time  `db:"scheduled_date" json:"-"`
	ScheduledTime           string     `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes         int        `db:"duration_minutes" json:"duration_minutes"`
	PricePaidCents          int64      `db:"price_paid_cents" json:"price_paid_cents"`
	InfluencerEarningsCents int64      `db:"influencer_earnings_cents" json:"influencer_earnings_cents"`
	Status                  Status     `db:"status" json:"status"`
	RejectionReason         *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	StartedAt               *time.Time `db:"started_at" json:"started_at,omitempty"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
}

// View is the JSON shape of a booking with the date rendered as a calendar day.
type View struct {
	*Booking
	ScheduledDate string `json:"scheduled_date"`
}

func (b *Booking) View() View {
	return View{Booking: b, ScheduledDate: b.ScheduledDate.Format(dateLayout)}
}

func (b *Booking) Start(loc *time.Location) (time.Time, error) {
	return window.ScheduledInstant(b.ScheduledDate, b.ScheduledTime, loc)
}

// PartyRole derives the caller's role from the booking itself.
func (b *Booking) PartyRole(actorID string) (actor.Role, bool) {
	switch {
	case actorID == "":
		return "", false
	case actorID == b.InfluencerID:
		return actor.RoleInfluencer, true
	case actorID == b.SubscriberID:
		return actor.RoleSubscriber, true
	}
	return "", false
}

func (b *Booking) IsParty(actorID string) bool {
	_, ok := b.PartyRole(actorID)
	return ok
}

type CreateRequest struct {
	InfluencerID    string `json:"influencer_id" binding:"required,uuid"`
	ScheduledDate   string `json:"scheduled_date" binding:"required"`
	ScheduledTime   string `json:"scheduled_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}
