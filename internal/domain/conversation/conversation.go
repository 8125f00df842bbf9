package conversation

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSamePair      = errors.New("conversation needs two distinct users")
	ErrEmptyMessage  = errors.New("message content is empty")
	ErrMessageTooBig = errors.New("message content is too long")
)

// Conversation is keyed by the unordered user pair; User1ID always sorts
// before User2ID.
type Conversation struct {
	ID            uuid.UUID
	User1ID       uuid.UUID
	User2ID       uuid.UUID
	LastMessage   string
	LastMessageAt *time.Time
	CreatedAt     time.Time
}

// OrderedPair returns a and b in storage order.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	switch c := bytes.Compare(a[:], b[:]); {
	case a == uuid.Nil || b == uuid.Nil || c == 0:
		return uuid.Nil, uuid.Nil, ErrSamePair
	case c < 0:
		return a, b, nil
	default:
		return b, a, nil
	}
}

func (c Conversation) Has(userID uuid.UUID) bool {
	return userID != uuid.Nil && (c.User1ID == userID || c.User2ID == userID)
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	ReceiverID     uuid.UUID
	Content        string
	Read           bool
	CreatedAt      time.Time
}

// CleanContent trims content and enforces the length limit.
func CleanContent(content string, maxLen int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyMessage
	}
	if maxLen > 0 && len([]rune(content)) > maxLen {
		return "", ErrMessageTooBig
	}
	return content, nil
}
