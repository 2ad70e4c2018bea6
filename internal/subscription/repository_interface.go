package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, subscriberID, influencerID string, priceCents int64, expiresAt time.Time) (*Subscription, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	FindActive(ctx context.Context, subscriberID, influencerID string) (*Subscription, error)
	Cancel(ctx context.Context, id string) (*Subscription, error)
	ListForActor(ctx context.Context, actorID string) ([]Subscription, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
