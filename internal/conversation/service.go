package conversation

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/realtime"
)

type Service interface {
	// GetOrCreate returns the one conversation between a and b, in either order.
	GetOrCreate(ctx context.Context, a, b string) (*Conversation, error)
	Open(ctx context.Context, a actor.Actor, otherID string) (*Conversation, error)
	ListMine(ctx context.Context, a actor.Actor) ([]Conversation, error)
	Send(ctx context.Context, a actor.Actor, conversationID, clientMessageID, body string) (*Message, error)
	List(ctx context.Context, a actor.Actor, conversationID string, limit int) ([]Message, error)
	PostSystemMessage(ctx context.Context, from, to, body string) error
}

type service struct {
	repo Repository
	feed realtime.Publisher
}

func NewService(repo Repository, feed realtime.Publisher) Service {
	return &service{repo: repo, feed: feed}
}

func (s *service) GetOrCreate(ctx context.Context, a, b string) (*Conversation, error) {
	if a == "" || b == "" {
		return nil, apperr.Validation("both participants are required")
	}
	if a == b {
		return nil, apperr.Validation("cannot open a conversation with yourself")
	}

	c, err := s.repo.FindByPair(ctx, a, b)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return nil, err
	}

	c, err = s.repo.Insert(ctx, a, b)
	if err == nil {
		logger.Debug("conversation created", "conversation_id", c.ID)
		return c, nil
	}
	if !db.IsUniqueViolation(err) {
		return nil, err
	}

	// Lost the race for this pair; the winner's row is there now.
	c, err = s.repo.FindByPair(ctx, a, b)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Open(ctx context.Context, a actor.Actor, otherID string) (*Conversation, error) {
	return s.GetOrCreate(ctx, a.ID, otherID)
}

func (s *service) ListMine(ctx context.Context, a actor.Actor) ([]Conversation, error) {
	return s.repo.ListForActor(ctx, a.ID)
}

func (s *service) Send(ctx context.Context, a actor.Actor, conversationID, clientMessageID, body string) (*Message, error) {
	c, err := s.load(ctx, a, conversationID)
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message body is required")
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return nil, apperr.Validation("message is longer than %d characters", MaxBodyLength)
	}

	if clientMessageID == "" {
		clientMessageID = uuid.NewString()
	} else if _, err := uuid.Parse(clientMessageID); err != nil {
		return nil, apperr.Validation("message id must be a uuid")
	}

	return s.insert(ctx, c, &Message{
		ID:             clientMessageID,
		ConversationID: c.ID,
		SenderID:       a.ID,
		Kind:           KindText,
		Body:           body,
	})
}

func (s *service) List(ctx context.Context, a actor.Actor, conversationID string, limit int) ([]Message, error) {
	c, err := s.load(ctx, a, conversationID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, c.ID, limit)
}

func (s *service) PostSystemMessage(ctx context.Context, from, to, body string) error {
	c, err := s.GetOrCreate(ctx, from, to)
	if err != nil {
		return err
	}
	_, err = s.insert(ctx, c, &Message{
		ID:             uuid.NewString(),
		ConversationID: c.ID,
		SenderID:       from,
		Kind:           KindSystem,
		Body:           body,
	})
	return err
}

func (s *service) insert(ctx context.Context, c *Conversation, m *Message) (*Message, error) {
	stored, created, err := s.repo.InsertMessage(ctx, m)
	if err != nil {
		return nil, err
	}
	if !created {
		// A retry must match the original; a reused id from elsewhere is a conflict.
		if stored.ConversationID != m.ConversationID || stored.SenderID != m.SenderID {
			return nil, apperr.Conflict("message id %s is already used", m.ID)
		}
		return stored, nil
	}

	if err := s.repo.TouchLastMessage(ctx, c.ID, stored.CreatedAt); err != nil {
		logger.WithError(err).Warn("conversation last_message_at not updated", "conversation_id", c.ID)
	}
	realtime.Emit(ctx, s.feed, realtime.TableMessages, realtime.OpInsert, stored.ID)
	return stored, nil
}

func (s *service) load(ctx context.Context, a actor.Actor, id string) (*Conversation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrConversationNotFound) {
		return nil, apperr.NotFound("conversation")
	}
	if err != nil {
		return nil, err
	}
	if !c.HasParticipant(a.ID) {
		return nil, apperr.Authorization("not a participant of this conversation")
	}
	return c, nil
}

// NewSnapshotLoader pushes a new message to both participants.
func NewSnapshotLoader(repo Repository) realtime.LoaderFunc {
	return func(ctx context.Context, id string) (realtime.Snapshot, error) {
		m, err := repo.GetMessage(ctx, id)
		if err != nil {
			return realtime.Snapshot{}, err
		}
		c, err := repo.GetByID(ctx, m.ConversationID)
		if err != nil {
			return realtime.Snapshot{}, err
		}
		return realtime.Snapshot{Recipients: []string{c.Participant1ID, c.Participant2ID}, Data: m}, nil
	}
}
