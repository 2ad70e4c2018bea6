package earnings

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Credit(ctx context.Context, influencerID, bookingID string, amountCents int64) (bool, error) {
	query := `
		INSERT INTO influencer_earnings (influencer_id, booking_id, amount_cents)
		VALUES ($1, $2, $3)
		ON CONFLICT (booking_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, influencerID, bookingID, amountCents)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (r *repository) Total(ctx context.Context, influencerID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM influencer_earnings WHERE influencer_id = $1`

	var total int64
	if err := r.db.GetContext(ctx, &total, query, influencerID); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *repository) List(ctx context.Context, influencerID string, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, influencer_id, booking_id, amount_cents, created_at
		FROM influencer_earnings
		WHERE influencer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, influencerID, limit, offset); err != nil {
		return nil, err
	}

	return entries, nil
}
