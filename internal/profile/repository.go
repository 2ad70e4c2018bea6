package profile

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `id, email, display_name, user_type, account_status, kyc_status,
		streaming_price_per_minute_cents, subscription_price_cents, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) EmailOf(ctx context.Context, id string) (string, error) {
	query := `SELECT email FROM profiles WHERE id = $1`

	var email string
	if err := r.db.GetContext(ctx, &email, query, id); err != nil {
		if db.IsNoRows(err) {
			return "", ErrProfileNotFound
		}
		return "", err
	}

	return email, nil
}

func (r *repository) SetPricing(ctx context.Context, id string, perMinuteCents, subscriptionCents int64) error {
	query := `
		UPDATE profiles
		SET streaming_price_per_minute_cents = $2, subscription_price_cents = $3, updated_at = NOW()
		WHERE id = $1 AND user_type = 'influencer'
	`

	result, err := r.db.ExecContext(ctx, query, id, perMinuteCents, subscriptionCents)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
