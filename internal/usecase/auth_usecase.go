package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"skillmatch/internal/domain/user"
	"skillmatch/internal/pkg/jwt"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

type Credentials struct {
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUsecase interface {
	// Register creates the account and its empty profile. The profile
	// becomes usable after onboarding.
	Register(ctx context.Context, in Credentials) (user.User, TokenPair, error)
	Login(ctx context.Context, in Credentials) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	users  user.Repository
	jwt    jwt.Service
	cost   int
	logger *slog.Logger
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service, log *slog.Logger) *Auth {
	return &Auth{users: users, jwt: jwtSvc, cost: bcrypt.DefaultCost, logger: logger.OrDiscard(log)}
}

// WithHashCost lowers the bcrypt cost, which tests use to stay fast.
func (u *Auth) WithHashCost(cost int) *Auth {
	u.cost = cost
	return u
}

func (u *Auth) Register(ctx context.Context, in Credentials) (user.User, TokenPair, error) {
	email, fields := validateCredentials(in)
	if len(fields) > 0 {
		return user.User{}, TokenPair{}, &ValidationError{Fields: fields}
	}

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, TokenPair{}, classify("check email", err)
	}
	if exists {
		return user.User{}, TokenPair{}, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return user.User{}, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	usr := user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return user.User{}, TokenPair{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return user.User{}, TokenPair{}, classify("create user", err)
	}

	created, err := u.users.GetByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, TokenPair{}, classify("load user", err)
	}

	tokens, err := u.issue(created)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	u.logger.Info("user registered", slog.String("user_id", created.ID.String()))
	return sanitizeUser(created), tokens, nil
}

func (u *Auth) Login(ctx context.Context, in Credentials) (user.User, TokenPair, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
		}
		return user.User{}, TokenPair{}, classify("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	tokens, err := u.issue(usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return sanitizeUser(usr), tokens, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, fmt.Errorf("%w: refresh token required", ErrUnauthenticated)
	}

	claims, err := u.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, fmt.Errorf("%w: refresh token expired", ErrUnauthenticated)
		}
		return TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
		}
		return TokenPair{}, classify("load user", err)
	}

	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func validateCredentials(in Credentials) (string, map[string]string) {
	fields := map[string]string{}
	email := normalizeEmail(in.Email)
	if email == "" {
		fields["email"] = "must be a valid email address"
	}
	if n := len(in.Password); n < minPasswordLength || n > maxPasswordLength {
		fields["password"] = fmt.Sprintf("must be %d to %d characters", minPasswordLength, maxPasswordLength)
	}
	return email, fields
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	return email
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
