package conversation

import (
	"context"
	"time"
)

type Repository interface {
	FindByPair(ctx context.Context, a, b string) (*Conversation, error)
	Insert(ctx context.Context, a, b string) (*Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	ListForActor(ctx context.Context, actorID string) ([]Conversation, error)
	// InsertMessage is a no-op returning the stored row when m.ID exists.
	InsertMessage(ctx context.Context, m *Message) (msg *Message, created bool, err error)
	GetMessage(ctx context.Context, id string) (*Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
	TouchLastMessage(ctx context.Context, conversationID string, at time.Time) error
}
