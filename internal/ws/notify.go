package ws

import (
	"context"
	"encoding/json"
	"time"

	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/domain/match"

	"github.com/google/uuid"
)

const (
	EventMatchConfirmed = "match.confirmed"
	EventMessageCreated = "message.created"
)

type event struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	Error          string `json:"error,omitempty"`
	Data           any    `json:"data,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

func newErrorEvent(msg string) event {
	return event{Type: "error", Error: msg}
}

func newAckEvent(kind string, conversationID uuid.UUID) event {
	return event{Type: kind, ConversationID: idString(conversationID)}
}

type matchPayload struct {
	MatchID    uuid.UUID `json:"match_id"`
	JobID      uuid.UUID `json:"job_id"`
	WorkerID   uuid.UUID `json:"worker_id"`
	EmployerID uuid.UUID `json:"employer_id"`
}

type messagePayload struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	ReceiverID     uuid.UUID `json:"receiver_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Notifier pushes domain events to connected clients. Delivery is best
// effort; a user with no open socket simply misses the push.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) MatchConfirmed(_ context.Context, m match.Match) {
	n.publish(Delivery{
		Type:    EventMatchConfirmed,
		Key:     m.ID,
		UserIDs: []uuid.UUID{m.WorkerID, m.EmployerID},
	}, matchPayload{MatchID: m.ID, JobID: m.JobID, WorkerID: m.WorkerID, EmployerID: m.EmployerID})
}

// MessageCreated reaches both participants and anyone subscribed to the
// conversation; the message id keeps a client from seeing it twice.
func (n *Notifier) MessageCreated(_ context.Context, msg conversation.Message) {
	n.publish(Delivery{
		Type:           EventMessageCreated,
		Key:            msg.ID,
		UserIDs:        []uuid.UUID{msg.SenderID, msg.ReceiverID},
		ConversationID: msg.ConversationID,
	}, messagePayload{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	})
}

func (n *Notifier) publish(d Delivery, data any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(event{
		Type:           d.Type,
		ConversationID: idString(d.ConversationID),
		Data:           data,
		Timestamp:      n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	d.Payload = b
	n.hub.Deliver(d)
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
