package usecase

import (
	"context"

	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/profile"
)

// Notifier pushes realtime events to connected clients. Delivery is best
// effort and never fails the operation that triggered it.
type Notifier interface {
	MatchConfirmed(ctx context.Context, m match.Match)
	MessageCreated(ctx context.Context, msg conversation.Message)
}

type SwipeMetrics interface {
	SwipeRecorded(role profile.Role, decision match.Status)
	MatchConfirmed()
}

type noopNotifier struct{}

func (noopNotifier) MatchConfirmed(context.Context, match.Match)          {}
func (noopNotifier) MessageCreated(context.Context, conversation.Message) {}

type noopMetrics struct{}

func (noopMetrics) SwipeRecorded(profile.Role, match.Status) {}
func (noopMetrics) MatchConfirmed()                          {}
