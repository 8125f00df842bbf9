package repository

import (
	"context"
	"fmt"
	"time"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/conversation"

	"github.com/google/uuid"
)

type ConversationListItem struct {
	Conversation conversation.Conversation
	UnreadCount  int
}

type ConversationRepository interface {
	// GetOrCreate is idempotent for an unordered user pair.
	GetOrCreate(ctx context.Context, a, b uuid.UUID) (conversation.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error)
}

type MessageRepository interface {
	// Create stores m and bumps the conversation's last message atomically.
	Create(ctx context.Context, m conversation.Message) (conversation.Message, error)
	// List returns up to limit messages older than before (or the newest
	// when before is nil) in chronological order.
	List(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]conversation.Message, error)
	MarkRead(ctx context.Context, conversationID, receiverID uuid.UUID) (int64, error)
}

type PostgresConversationRepository struct {
	db database.DB
}

func NewPostgresConversationRepository(db database.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

const conversationColumns = `id, user_1_id, user_2_id, last_message, last_message_at, created_at`

func (r *PostgresConversationRepository) GetOrCreate(ctx context.Context, a, b uuid.UUID) (conversation.Conversation, error) {
	u1, u2, err := conversation.OrderedPair(a, b)
	if err != nil {
		return conversation.Conversation{}, err
	}

	c, err := scanConversation(r.db.QueryRow(ctx,
		`INSERT INTO conversations (id, user_1_id, user_2_id) VALUES ($1, $2, $3)
		 ON CONFLICT (user_1_id, user_2_id) DO NOTHING
		 RETURNING `+conversationColumns,
		uuid.New(), u1, u2,
	))
	if err == nil {
		return c, nil
	}
	if !isNoRows(err) {
		return conversation.Conversation{}, err
	}

	c, err = scanConversation(r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE user_1_id = $1 AND user_2_id = $2`, u1, u2))
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("load conversation %s/%s: %w", u1, u2, err)
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	c, err := scanConversation(r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return conversation.Conversation{}, fmt.Errorf("%w: conversation %s", ErrNotFound, id)
		}
		return conversation.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.user_1_id, c.user_2_id, c.last_message, c.last_message_at, c.created_at,
			(SELECT COUNT(*) FROM messages m
			 WHERE m.conversation_id = c.id AND m.receiver_id = $1 AND NOT m.read) AS unread
		 FROM conversations c
		 WHERE c.user_1_id = $1 OR c.user_2_id = $1
		 ORDER BY COALESCE(c.last_message_at, c.created_at) DESC, c.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]ConversationListItem, 0)
	for rows.Next() {
		var it ConversationListItem
		c := &it.Conversation
		if err := rows.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt, &it.UnreadCount); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanConversation(row database.Row) (conversation.Conversation, error) {
	var c conversation.Conversation
	if err := row.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt); err != nil {
		return conversation.Conversation{}, err
	}
	return c, nil
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

const messageColumns = `id, conversation_id, sender_id, receiver_id, content, read, created_at`

func (r *PostgresMessageRepository) Create(ctx context.Context, m conversation.Message) (conversation.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	var created conversation.Message
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var err error
		created, err = scanMessage(tx.QueryRow(ctx,
			`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, content)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+messageColumns,
			m.ID, m.ConversationID, m.SenderID, m.ReceiverID, m.Content,
		))
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: conversation %s", ErrNotFound, m.ConversationID)
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE conversations SET last_message = $2, last_message_at = $3 WHERE id = $1`,
			created.ConversationID, created.Content, created.CreatedAt,
		)
		return err
	})
	if err != nil {
		return conversation.Message{}, err
	}
	return created, nil
}

func (r *PostgresMessageRepository) List(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]conversation.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows database.Rows
		err  error
	)
	if before != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+messageColumns+` FROM messages
			 WHERE conversation_id = $1 AND created_at < $2
			 ORDER BY created_at DESC, id DESC LIMIT $3`,
			conversationID, *before, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+messageColumns+` FROM messages
			 WHERE conversation_id = $1
			 ORDER BY created_at DESC, id DESC LIMIT $2`,
			conversationID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]conversation.Message, 0, limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, conversationID, receiverID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE messages SET read = true WHERE conversation_id = $1 AND receiver_id = $2 AND NOT read`,
		conversationID, receiverID)
}

func scanMessage(row database.Row) (conversation.Message, error) {
	var m conversation.Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
		return conversation.Message{}, err
	}
	return m, nil
}
