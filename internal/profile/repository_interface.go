package profile

import "context"

type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	EmailOf(ctx context.Context, id string) (string, error)
	SetPricing(ctx context.Context, id string, perMinuteCents, subscriptionCents int64) error
}
