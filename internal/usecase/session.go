package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillmatch/internal/domain/profile"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

// Session is the caller identity every protected operation resolves
// first. Role is empty until onboarding completes.
type Session struct {
	UserID    uuid.UUID    `json:"user_id"`
	Email     string       `json:"email"`
	Role      profile.Role `json:"role"`
	Onboarded bool         `json:"onboarded"`
}

type SessionService interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Session, error)
	// RequireOnboarded resolves the session and refuses callers that have
	// not picked a role yet.
	RequireOnboarded(ctx context.Context, userID uuid.UUID) (Session, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type profileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
}

type Sessions struct {
	profiles profileGetter
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
}

func NewSessionService(profiles profileGetter, cache Cache, ttl time.Duration, log *slog.Logger) *Sessions {
	return &Sessions{profiles: profiles, cache: cacheOrNoop(cache), ttl: ttl, logger: logger.OrDiscard(log)}
}

func (s *Sessions) Resolve(ctx context.Context, userID uuid.UUID) (Session, error) {
	if userID == uuid.Nil {
		return Session{}, ErrUnauthenticated
	}

	key := SessionCacheKey(userID)
	var cached Session
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok && cached.UserID == userID {
		return cached, nil
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: no profile for %s", ErrUnauthenticated, userID)
		}
		return Session{}, classify("resolve session", err)
	}

	sess := Session{
		UserID:    p.ID,
		Email:     p.Email,
		Role:      p.Role,
		Onboarded: p.HasCompletedOnboarding && p.Role.Valid(),
	}
	if err := s.cache.SetJSON(ctx, key, sess, s.ttl); err != nil {
		s.logger.Debug("session cache write failed", slog.String("user_id", userID.String()), slog.Any("err", err))
	}
	return sess, nil
}

func (s *Sessions) RequireOnboarded(ctx context.Context, userID uuid.UUID) (Session, error) {
	sess, err := s.Resolve(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	if !sess.Onboarded {
		return Session{}, fmt.Errorf("%w: onboarding not completed", ErrForbidden)
	}
	return sess, nil
}

func (s *Sessions) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, SessionCacheKey(userID)); err != nil {
		s.logger.Warn("session cache invalidation failed", slog.String("user_id", userID.String()), slog.Any("err", err))
	}
}
