package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSessions_ResolveCachesUntilInvalidated(t *testing.T) {
	profiles := newMemProfiles()
	cache := newMemCache()
	s := NewSessionService(profiles, cache, time.Minute, nil)
	ctx := context.Background()

	p := profiles.add(profile.RoleWorker, "Dev")
	sess, err := s.Resolve(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, sess.Onboarded)
	require.True(t, cache.has(SessionCacheKey(p.ID)))

	profiles.getErr[p.ID] = errors.New("db down")
	_, err = s.Resolve(ctx, p.ID)
	require.NoError(t, err, "served from cache")

	s.Invalidate(ctx, p.ID)
	_, err = s.Resolve(ctx, p.ID)
	require.ErrorIs(t, err, ErrDataAccess)
}

func TestSessions_UnknownIdentity(t *testing.T) {
	s := NewSessionService(newMemProfiles(), nil, time.Minute, nil)

	_, err := s.Resolve(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = s.Resolve(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "bad", "a": "missing"}}
	require.Equal(t, "validation failed: a: missing; b: bad", err.Error())
	require.ErrorIs(t, err, ErrValidation)
}
