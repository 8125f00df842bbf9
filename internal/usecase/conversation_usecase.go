package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

type ConversationSummary struct {
	Conversation conversation.Conversation
	Counterpart  profile.Summary
	UnreadCount  int
}

type ConversationUsecase interface {
	// Open returns the conversation with otherID, creating it on first use.
	// It requires a confirmed match between the two users.
	Open(ctx context.Context, userID, otherID uuid.UUID) (conversation.Conversation, error)
	List(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error)
	// Messages pages backwards from before and marks the page read for the
	// caller.
	Messages(ctx context.Context, userID, conversationID uuid.UUID, before *time.Time, limit int) ([]conversation.Message, error)
	Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (conversation.Message, error)
	MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error)
	CanAccess(ctx context.Context, userID, conversationID uuid.UUID) (bool, error)
}

type ConversationOptions struct {
	PageSize         int
	MaxMessageLength int
}

type Conversations struct {
	sessions SessionService
	profiles repository.ProfileRepository
	matches  repository.MatchRepository
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	notifier Notifier
	opts     ConversationOptions
	logger   *slog.Logger
}

func NewConversationUsecase(
	sessions SessionService,
	profiles repository.ProfileRepository,
	matches repository.MatchRepository,
	convs repository.ConversationRepository,
	messages repository.MessageRepository,
	notifier Notifier,
	opts ConversationOptions,
	log *slog.Logger,
) *Conversations {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	return &Conversations{
		sessions: sessions,
		profiles: profiles,
		matches:  matches,
		convs:    convs,
		messages: messages,
		notifier: notifier,
		opts:     opts,
		logger:   logger.OrDiscard(log),
	}
}

func (u *Conversations) Open(ctx context.Context, userID, otherID uuid.UUID) (conversation.Conversation, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return conversation.Conversation{}, err
	}
	if otherID == uuid.Nil || otherID == sess.UserID {
		return conversation.Conversation{}, invalid("user_id", "must reference another user")
	}

	ok, err := u.matches.ExistsConfirmedBetween(ctx, sess.UserID, otherID)
	if err != nil {
		return conversation.Conversation{}, classify("check match", err)
	}
	if !ok {
		return conversation.Conversation{}, fmt.Errorf("%w: no confirmed match with %s", ErrForbidden, otherID)
	}

	c, err := u.convs.GetOrCreate(ctx, sess.UserID, otherID)
	if err != nil {
		return conversation.Conversation{}, classify("open conversation", err)
	}
	return c, nil
}

func (u *Conversations) List(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := u.convs.ListForUser(ctx, sess.UserID)
	if err != nil {
		return nil, classify("list conversations", err)
	}

	out := make([]ConversationSummary, 0, len(items))
	for _, it := range items {
		otherID := it.Conversation.Other(sess.UserID)
		other, err := u.profiles.GetByID(ctx, otherID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				u.logger.Warn("conversation counterpart missing",
					slog.String("conversation_id", it.Conversation.ID.String()),
					slog.String("user_id", otherID.String()))
				continue
			}
			return nil, classify("load counterpart", err)
		}
		out = append(out, ConversationSummary{
			Conversation: it.Conversation,
			Counterpart:  other.Summary(),
			UnreadCount:  it.UnreadCount,
		})
	}
	return out, nil
}

func (u *Conversations) participant(ctx context.Context, userID, conversationID uuid.UUID) (Session, conversation.Conversation, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return Session{}, conversation.Conversation{}, err
	}
	c, err := u.convs.GetByID(ctx, conversationID)
	if err != nil {
		return Session{}, conversation.Conversation{}, classify("get conversation", err)
	}
	if !c.Has(sess.UserID) {
		return Session{}, conversation.Conversation{}, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	return sess, c, nil
}

func (u *Conversations) Messages(ctx context.Context, userID, conversationID uuid.UUID, before *time.Time, limit int) ([]conversation.Message, error) {
	sess, c, err := u.participant(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > u.opts.PageSize {
		limit = u.opts.PageSize
	}

	msgs, err := u.messages.List(ctx, c.ID, before, limit)
	if err != nil {
		return nil, classify("list messages", err)
	}

	if _, err := u.messages.MarkRead(ctx, c.ID, sess.UserID); err != nil {
		u.logger.Warn("mark read failed", slog.String("conversation_id", c.ID.String()), slog.Any("err", err))
	}
	return msgs, nil
}

func (u *Conversations) Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (conversation.Message, error) {
	sess, c, err := u.participant(ctx, userID, conversationID)
	if err != nil {
		return conversation.Message{}, err
	}

	text, err := conversation.CleanContent(content, u.opts.MaxMessageLength)
	if err != nil {
		return conversation.Message{}, invalid("content", err.Error())
	}

	msg, err := u.messages.Create(ctx, conversation.Message{
		ID:             uuid.New(),
		ConversationID: c.ID,
		SenderID:       sess.UserID,
		ReceiverID:     c.Other(sess.UserID),
		Content:        text,
	})
	if err != nil {
		return conversation.Message{}, classify("send message", err)
	}

	u.notifier.MessageCreated(ctx, msg)
	return msg, nil
}

func (u *Conversations) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	sess, c, err := u.participant(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}
	n, err := u.messages.MarkRead(ctx, c.ID, sess.UserID)
	if err != nil {
		return 0, classify("mark read", err)
	}
	return n, nil
}

func (u *Conversations) CanAccess(ctx context.Context, userID, conversationID uuid.UUID) (bool, error) {
	_, _, err := u.participant(ctx, userID, conversationID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthenticated):
		return false, nil
	default:
		return false, err
	}
}
