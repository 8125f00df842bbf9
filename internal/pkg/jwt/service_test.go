package jwt

import (
	"testing"
	"time"

	"skillmatch/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService() *HMACService {
	return NewHMACService(config.JWTConfig{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestService()
	id := uuid.New()

	tok, err := s.GenerateAccessToken(id, "a@example.org")
	require.NoError(t, err)

	c, err := s.ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, id, c.UserID)
	require.Equal(t, "a@example.org", c.Email)
	require.Equal(t, TokenTypeAccess, c.TokenType)
}

func TestTokens_AreNotInterchangeable(t *testing.T) {
	t.Parallel()

	s := newTestService()
	id := uuid.New()

	access, err := s.GenerateAccessToken(id, "a@example.org")
	require.NoError(t, err)
	refresh, err := s.GenerateRefreshToken(id)
	require.NoError(t, err)

	_, err = s.ParseRefreshToken(access)
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = s.ParseAccessToken(refresh)
	require.ErrorIs(t, err, ErrTokenInvalid)

	c, err := s.ParseRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, id, c.UserID)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService().WithClock(func() time.Time { return issued })

	tok, err := s.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	s.WithClock(func() time.Time { return issued.Add(2 * time.Minute) })
	_, err = s.ParseAccessToken(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_RejectsGarbageAndForeignSecrets(t *testing.T) {
	t.Parallel()

	s := newTestService()
	other := NewHMACService(config.JWTConfig{
		AccessSecret: "other", RefreshSecret: "other", AccessExpiresIn: time.Minute, RefreshExpiresIn: time.Minute,
	})

	tok, err := other.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	_, err = s.ParseAccessToken(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = s.ParseAccessToken("not.a.token")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.GenerateAccessToken(uuid.Nil, "")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
