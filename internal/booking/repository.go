package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrStatusChanged   = errors.New("booking status changed concurrently")
)

const bookingColumns = `id, subscriber_id, influencer_id, scheduled_date, scheduled_time, duration_minutes,
		price_paid_cents, influencer_earnings_cents, status, rejection_reason, started_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (subscriber_id, influencer_id, scheduled_date, scheduled_time, duration_minutes,
			price_paid_cents, influencer_earnings_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING ` + bookingColumns

	var created Booking
	err := r.db.GetContext(ctx, &created, query,
		b.SubscriberID, b.InfluencerID, b.ScheduledDate, b.ScheduledTime, b.DurationMinutes,
		b.PricePaidCents, b.InfluencerEarningsCents,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) Transition(ctx context.Context, id string, from, to Status, reason *string) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, rejection_reason = COALESCE($4, rejection_reason), updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id, from, to, reason); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrStatusChanged
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) MarkStarted(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE bookings
		SET started_at = $2, updated_at = NOW()
		WHERE id = $1 AND started_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

func (r *repository) ListForActor(ctx context.Context, actorID string, status Status) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (subscriber_id = $1 OR influencer_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY scheduled_date DESC, scheduled_time DESC
	`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, actorID, string(status)); err != nil {
		return nil, err
	}

	return bookings, nil
}
