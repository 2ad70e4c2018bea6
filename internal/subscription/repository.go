package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotActive            = errors.New("subscription is not active")
)

const subscriptionColumns = `id, subscriber_id, influencer_id, status, price_cents, expires_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create surfaces the one-active-per-pair unique violation as is.
func (r *repository) Create(ctx context.Context, subscriberID, influencerID string, priceCents int64, expiresAt time.Time) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (subscriber_id, influencer_id, status, price_cents, expires_at)
		VALUES ($1, $2, 'active', $3, $4)
		RETURNING `+subscriptionColumns,
		subscriberID, influencerID, priceCents, expiresAt,
	).StructScan(sub)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return sub, nil
}

func (r *repository) FindActive(ctx context.Context, subscriberID, influencerID string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE subscriber_id = $1
		  AND influencer_id = $2
		  AND status = 'active'
		LIMIT 1
	`, subscriberID, influencerID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return sub, nil
}

// Cancel only moves an active subscription; ErrNotActive otherwise.
func (r *repository) Cancel(ctx context.Context, id string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		UPDATE subscriptions
		SET status = 'cancelled',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING `+subscriptionColumns, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotActive
		}
		return nil, err
	}

	return sub, nil
}

func (r *repository) ListForActor(ctx context.Context, actorID string) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE subscriber_id = $1 OR influencer_id = $1
		ORDER BY created_at DESC
	`, actorID)
	return subs, err
}

func (r *repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'expired',
		    updated_at = NOW()
		WHERE status = 'active' AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
