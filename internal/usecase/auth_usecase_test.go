package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"skillmatch/internal/config"
	"skillmatch/internal/domain/user"
	"skillmatch/internal/pkg/jwt"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]user.User
	createErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uuid.UUID]user.User{}} }

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	u.CreatedAt = epoch
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func newTestAuth(users user.Repository) (*Auth, *jwt.HMACService) {
	tokens := jwt.NewHMACService(config.JWTConfig{
		AccessSecret: "a", RefreshSecret: "r", AccessExpiresIn: time.Minute, RefreshExpiresIn: time.Hour,
	})
	return NewAuthUsecase(users, tokens, nil).WithHashCost(bcrypt.MinCost), tokens
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	users := newMemUsers()
	auth, tokens := newTestAuth(users)
	ctx := context.Background()

	u, pair, err := auth.Register(ctx, Credentials{Email: " Dana@Example.org ", Password: "correct horse"})
	require.NoError(t, err)
	require.Equal(t, "dana@example.org", u.Email)
	require.Empty(t, u.PasswordHash)

	claims, err := tokens.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)

	_, _, err = auth.Register(ctx, Credentials{Email: "dana@example.org", Password: "another one"})
	require.ErrorIs(t, err, ErrConflict)

	logged, _, err := auth.Login(ctx, Credentials{Email: "DANA@example.org", Password: "correct horse"})
	require.NoError(t, err)
	require.Equal(t, u.ID, logged.ID)

	_, _, err = auth.Login(ctx, Credentials{Email: "dana@example.org", Password: "wrong horse"})
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = auth.Login(ctx, Credentials{Email: "nobody@example.org", Password: "correct horse"})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuth_RegisterValidation(t *testing.T) {
	auth, _ := newTestAuth(newMemUsers())

	_, _, err := auth.Register(context.Background(), Credentials{Email: "not-an-email", Password: "short"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "password")
}

func TestAuth_RegisterBackendFailures(t *testing.T) {
	users := newMemUsers()
	auth, _ := newTestAuth(users)

	users.createErr = repository.ErrConflict
	_, _, err := auth.Register(context.Background(), Credentials{Email: "a@example.org", Password: "password1"})
	require.ErrorIs(t, err, ErrConflict)

	users.createErr = errors.New("connection reset")
	_, _, err = auth.Register(context.Background(), Credentials{Email: "a@example.org", Password: "password1"})
	require.ErrorIs(t, err, ErrDataAccess)
}

func TestAuth_Refresh(t *testing.T) {
	users := newMemUsers()
	auth, _ := newTestAuth(users)
	ctx := context.Background()

	u, pair, err := auth.Register(ctx, Credentials{Email: "a@example.org", Password: "password1"})
	require.NoError(t, err)

	next, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)

	_, err = auth.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = auth.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)

	delete(users.byID, u.ID)
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}
