package content

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
)

var ErrContentNotFound = errors.New("content not found")

const itemColumns = `id, owner_id, title, body, media_url, is_free, is_purchasable, price_cents, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM content_posts WHERE id = $1`

	var item Item
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string, approvedOnly bool) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM content_posts
		WHERE owner_id = $1
		  AND (NOT $2 OR status = 'approved')
		ORDER BY created_at DESC
	`

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, query, ownerID, approvedOnly); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) RecordPurchase(ctx context.Context, userID, contentID string, priceCents int64) (bool, error) {
	query := `
		INSERT INTO user_purchased_content (user_id, content_id, price_paid_cents)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, content_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, userID, contentID, priceCents)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}
