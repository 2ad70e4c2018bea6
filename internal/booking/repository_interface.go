package booking

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// Transition moves id from one status to another only if it is still in
	// from. ErrStatusChanged means another writer got there first.
	Transition(ctx context.Context, id string, from, to Status, reason *string) (*Booking, error)
	MarkStarted(ctx context.Context, id string, at time.Time) error
	ListForActor(ctx context.Context, actorID string, status Status) ([]Booking, error)
}
