package earnings

import "context"

type Repository interface {
	// Credit is idempotent per booking; credited is false on a repeat.
	Credit(ctx context.Context, influencerID, bookingID string, amountCents int64) (credited bool, err error)
	Total(ctx context.Context, influencerID string) (int64, error)
	List(ctx context.Context, influencerID string, limit, offset int) ([]Entry, error)
}
