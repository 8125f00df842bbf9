package dto

import (
	"time"

	"skillmatch/internal/domain/profile"
	"skillmatch/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type ProfileResponse struct {
	ID                     uuid.UUID `json:"id"`
	Role                   string    `json:"role"`
	FullName               string    `json:"full_name"`
	Email                  string    `json:"email"`
	AvatarURL              string    `json:"avatar_url"`
	Bio                    string    `json:"bio"`
	Experience             string    `json:"experience"`
	Availability           string    `json:"availability"`
	Skills                 []string  `json:"skills"`
	Languages              []string  `json:"languages"`
	CVURL                  string    `json:"cv_url,omitempty"`
	LinkedInURL            string    `json:"linkedin_url,omitempty"`
	HasCompletedOnboarding bool      `json:"has_completed_onboarding"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                     p.ID,
		Role:                   string(p.Role),
		FullName:               p.FullName,
		Email:                  p.Email,
		AvatarURL:              p.AvatarURL,
		Bio:                    p.Bio,
		Experience:             p.Experience,
		Availability:           p.Availability,
		Skills:                 nonNil(p.Skills),
		Languages:              nonNil(p.Languages),
		CVURL:                  p.CVURL,
		LinkedInURL:            p.LinkedInURL,
		HasCompletedOnboarding: p.HasCompletedOnboarding,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

// SummaryResponse is what the other side of a pairing gets to see.
type SummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
}

func NewSummaryResponse(s profile.Summary) SummaryResponse {
	return SummaryResponse{ID: s.ID, FullName: s.FullName, AvatarURL: s.AvatarURL, Bio: s.Bio}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
