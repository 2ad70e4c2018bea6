package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

const (
	conversationColumns = `id, participant1_id, participant2_id, last_message_at, created_at`
	messageColumns      = `id, conversation_id, sender_id, kind, body, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByPair(ctx context.Context, a, b string) (*Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE (participant1_id = $1 AND participant2_id = $2)
		   OR (participant1_id = $2 AND participant2_id = $1)
		LIMIT 1
	`

	var c Conversation
	if err := r.db.GetContext(ctx, &c, query, a, b); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	return &c, nil
}

// Insert surfaces the unique violation from the unordered-pair index as is;
// the service turns it into a lookup.
func (r *repository) Insert(ctx context.Context, a, b string) (*Conversation, error) {
	query := `
		INSERT INTO conversations (participant1_id, participant2_id)
		VALUES ($1, $2)
		RETURNING ` + conversationColumns

	var c Conversation
	if err := r.db.GetContext(ctx, &c, query, a, b); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	var c Conversation
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *repository) ListForActor(ctx context.Context, actorID string) ([]Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE participant1_id = $1 OR participant2_id = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC
	`

	var convs []Conversation
	if err := r.db.SelectContext(ctx, &convs, query, actorID); err != nil {
		return nil, err
	}

	return convs, nil
}

func (r *repository) InsertMessage(ctx context.Context, m *Message) (*Message, bool, error) {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, kind, body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + messageColumns

	var created Message
	err := r.db.GetContext(ctx, &created, query, m.ID, m.ConversationID, m.SenderID, m.Kind, m.Body)
	if db.IsNoRows(err) {
		existing, err := r.GetMessage(ctx, m.ID)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}

	return &created, true, nil
}

func (r *repository) GetMessage(ctx context.Context, id string) (*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	var m Message
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// newest page, returned oldest first
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) page
		ORDER BY created_at, id
	`

	var msgs []Message
	if err := r.db.SelectContext(ctx, &msgs, query, conversationID, limit); err != nil {
		return nil, err
	}

	return msgs, nil
}

func (r *repository) TouchLastMessage(ctx context.Context, conversationID string, at time.Time) error {
	query := `
		UPDATE conversations
		SET last_message_at = GREATEST(COALESCE(last_message_at, $2), $2)
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, conversationID, at)
	return err
}
