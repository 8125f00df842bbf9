package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleWorker, RoleEmployer:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleEmployer
}

func (r Role) Opposite() Role {
	switch r {
	case RoleWorker:
		return RoleEmployer
	case RoleEmployer:
		return RoleWorker
	default:
		return ""
	}
}

// Profile shares its ID with the auth identity. Role stays empty until
// onboarding and never changes afterwards.
type Profile struct {
	ID                     uuid.UUID
	Role                   Role
	FullName               string
	Email                  string
	AvatarURL              string
	Bio                    string
	Experience             string
	Availability           string
	Skills                 []string
	Languages              []string
	CVURL                  string
	LinkedInURL            string
	HasCompletedOnboarding bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Summary is the public subset shown to the other side of a pairing.
type Summary struct {
	ID        uuid.UUID
	FullName  string
	AvatarURL string
	Bio       string
}

func (p Profile) Summary() Summary {
	return Summary{ID: p.ID, FullName: p.FullName, AvatarURL: p.AvatarURL, Bio: p.Bio}
}

func (p Profile) IsWorker() bool { return p.Role == RoleWorker }

func (p Profile) IsEmployer() bool { return p.Role == RoleEmployer }
