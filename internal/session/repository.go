package session

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionColumns = `id, session_token, booking_id, influencer_id, subscriber_id, ends_at, is_active, ended_at, end_reason, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIfAbsent(ctx context.Context, s *Session) (*Session, bool, error) {
	query := `
		INSERT INTO streaming_sessions (id, session_token, booking_id, influencer_id, subscriber_id, ends_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		ON CONFLICT (booking_id) WHERE is_active DO NOTHING
		RETURNING ` + sessionColumns

	var created Session
	err := r.db.GetContext(ctx, &created, query,
		s.ID, s.SessionToken, s.BookingID, s.InfluencerID, s.SubscriberID, s.EndsAt, s.CreatedAt,
	)
	if db.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &created, true, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM streaming_sessions WHERE id = $1`

	var s Session
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) FindActiveByBooking(ctx context.Context, bookingID string) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM streaming_sessions WHERE booking_id = $1 AND is_active`

	var s Session
	if err := r.db.GetContext(ctx, &s, query, bookingID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) Deactivate(ctx context.Context, id string, at time.Time, reason EndReason) (bool, error) {
	query := `
		UPDATE streaming_sessions
		SET is_active = FALSE, ended_at = $2, end_reason = $3
		WHERE id = $1 AND is_active
	`

	result, err := r.db.ExecContext(ctx, query, id, at, string(reason))
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (r *repository) ListDue(ctx context.Context, now time.Time, limit int) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM streaming_sessions
		WHERE is_active AND ends_at <= $1
		ORDER BY ends_at
		LIMIT $2
	`

	var sessions []Session
	if err := r.db.SelectContext(ctx, &sessions, query, now, limit); err != nil {
		return nil, err
	}

	return sessions, nil
}
