package session

import (
	"context"
	"time"
)

type Repository interface {
	// CreateIfAbsent inserts s unless the booking already has an active
	// session. created is false when another writer won.
	CreateIfAbsent(ctx context.Context, s *Session) (sess *Session, created bool, err error)
	GetByID(ctx context.Context, id string) (*Session, error)
	FindActiveByBooking(ctx context.Context, bookingID string) (*Session, error)
	// Deactivate reports false if the session was already inactive.
	Deactivate(ctx context.Context, id string, at time.Time, reason EndReason) (bool, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]Session, error)
}
