package conversation

import "time"

const (
	KindText   = "text"
	KindSystem = "system"

	MaxBodyLength = 4000
)

type Conversation struct {
	ID             string     `db:"id" json:"id"`
	Participant1ID string     `db:"participant1_id" json:"participant1_id"`
	Participant2ID string     `db:"participant2_id" json:"participant2_id"`
	LastMessageAt  *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (c *Conversation) HasParticipant(id string) bool {
	return id != "" && (c.Participant1ID == id || c.Participant2ID == id)
}

// SamePair compares participants as an unordered pair.
func (c *Conversation) SamePair(a, b string) bool {
	return (c.Participant1ID == a && c.Participant2ID == b) ||
		(c.Participant1ID == b && c.Participant2ID == a)
}

type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	Kind           string    `db:"kind" json:"kind"`
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type OpenRequest struct {
	ParticipantID string `json:"participant_id" binding:"required,uuid"`
}

// SendRequest carries the client's own message id so a retried send or an
// optimistic local entry reconciles with the stored row.
type SendRequest struct {
	ID   string `json:"id" binding:"omitempty,uuid"`
	Body string `json:"body" binding:"required"`
}
