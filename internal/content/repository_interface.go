package content

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, approvedOnly bool) ([]Item, error)
	// RecordPurchase returns false when the user already owns the item.
	RecordPurchase(ctx context.Context, userID, contentID string, priceCents int64) (bool, error)
}
