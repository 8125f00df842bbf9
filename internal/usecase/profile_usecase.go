package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"skillmatch/internal/domain/profile"
	"skillmatch/internal/domain/skill"
	"skillmatch/internal/infrastructure/storage"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

const maxFullNameLength = 120

type OnboardingInput struct {
	Role         string
	FullName     string
	Bio          string
	Experience   string
	Availability string
	Skills       []string
	Languages    []string
	LinkedInURL  string
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	FullName     *string
	Bio          *string
	Experience   *string
	Availability *string
	LinkedInURL  *string
	Skills       []string
	Languages    []string
}

type ProfileUsecase interface {
	Me(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (profile.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (profile.Profile, error)
	RequestUpload(ctx context.Context, userID uuid.UUID, kind storage.Kind, contentType string, size int64) (storage.UploadInfo, error)
	ConfirmUpload(ctx context.Context, userID uuid.UUID, kind storage.Kind, key string) (profile.Profile, error)
}

type Profiles struct {
	sessions SessionService
	profiles repository.ProfileRepository
	uploads  storage.Uploads
	cache    Cache
	logger   *slog.Logger
}

func NewProfileUsecase(sessions SessionService, profiles repository.ProfileRepository, uploads storage.Uploads, cache Cache, log *slog.Logger) *Profiles {
	if uploads == nil {
		uploads = storage.Disabled{}
	}
	return &Profiles{
		sessions: sessions,
		profiles: profiles,
		uploads:  uploads,
		cache:    cacheOrNoop(cache),
		logger:   logger.OrDiscard(log),
	}
}

func (u *Profiles) Me(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	sess, err := u.sessions.Resolve(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}
	p, err := u.profiles.GetByID(ctx, sess.UserID)
	if err != nil {
		return profile.Profile{}, classify("get profile", err)
	}
	return p, nil
}

func (u *Profiles) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (profile.Profile, error) {
	sess, err := u.sessions.Resolve(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	fields := map[string]string{}
	role, err := profile.ParseRole(in.Role)
	if err != nil {
		fields["role"] = "must be worker or employer"
	}
	if sess.Role != "" && role != "" && sess.Role != role {
		return profile.Profile{}, fmt.Errorf("%w: role is already %s", ErrConflict, sess.Role)
	}

	p := profile.Profile{
		ID:           sess.UserID,
		Role:         role,
		FullName:     in.FullName,
		Bio:          in.Bio,
		Experience:   in.Experience,
		Availability: in.Availability,
		Skills:       in.Skills,
		Languages:    in.Languages,
		LinkedInURL:  in.LinkedInURL,
	}
	for k, v := range normalizeProfile(&p) {
		fields[k] = v
	}
	if len(fields) > 0 {
		return profile.Profile{}, &ValidationError{Fields: fields}
	}

	out, err := u.profiles.CompleteOnboarding(ctx, p)
	if err != nil {
		return profile.Profile{}, classify("complete onboarding", err)
	}

	u.sessions.Invalidate(ctx, sess.UserID)
	u.invalidateCandidates(ctx, out)
	u.logger.Info("onboarding completed", slog.String("user_id", out.ID.String()), slog.String("role", string(out.Role)))
	return out, nil
}

func (u *Profiles) Update(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (profile.Profile, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	p, err := u.profiles.GetByID(ctx, sess.UserID)
	if err != nil {
		return profile.Profile{}, classify("get profile", err)
	}

	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Experience != nil {
		p.Experience = *in.Experience
	}
	if in.Availability != nil {
		p.Availability = *in.Availability
	}
	if in.LinkedInURL != nil {
		p.LinkedInURL = *in.LinkedInURL
	}
	if in.Skills != nil {
		p.Skills = in.Skills
	}
	if in.Languages != nil {
		p.Languages = in.Languages
	}

	if fields := normalizeProfile(&p); len(fields) > 0 {
		return profile.Profile{}, &ValidationError{Fields: fields}
	}

	out, err := u.profiles.Update(ctx, p)
	if err != nil {
		return profile.Profile{}, classify("update profile", err)
	}
	u.sessions.Invalidate(ctx, sess.UserID)
	u.invalidateCandidates(ctx, out)
	return out, nil
}

func (u *Profiles) RequestUpload(ctx context.Context, userID uuid.UUID, kind storage.Kind, contentType string, size int64) (storage.UploadInfo, error) {
	sess, err := u.uploadSession(ctx, userID, kind)
	if err != nil {
		return storage.UploadInfo{}, err
	}
	info, err := u.uploads.UploadURL(ctx, kind, sess.UserID, strings.TrimSpace(contentType), size)
	if err != nil {
		return storage.UploadInfo{}, uploadError(err)
	}
	return info, nil
}

func (u *Profiles) ConfirmUpload(ctx context.Context, userID uuid.UUID, kind storage.Kind, key string) (profile.Profile, error) {
	sess, err := u.uploadSession(ctx, userID, kind)
	if err != nil {
		return profile.Profile{}, err
	}

	publicURL, err := u.uploads.ConfirmUpload(ctx, kind, sess.UserID, strings.TrimSpace(key))
	if err != nil {
		return profile.Profile{}, uploadError(err)
	}

	switch kind {
	case storage.KindCV:
		err = u.profiles.SetCVURL(ctx, sess.UserID, publicURL)
	default:
		err = u.profiles.SetAvatarURL(ctx, sess.UserID, publicURL)
	}
	if err != nil {
		return profile.Profile{}, classify("store upload url", err)
	}

	u.sessions.Invalidate(ctx, sess.UserID)
	p, err := u.profiles.GetByID(ctx, sess.UserID)
	if err != nil {
		return profile.Profile{}, classify("get profile", err)
	}
	u.invalidateCandidates(ctx, p)
	return p, nil
}

// uploadSession allows avatars for everyone and CVs for workers only.
func (u *Profiles) uploadSession(ctx context.Context, userID uuid.UUID, kind storage.Kind) (Session, error) {
	sess, err := u.sessions.Resolve(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	switch kind {
	case storage.KindAvatar:
	case storage.KindCV:
		if sess.Role != profile.RoleWorker {
			return Session{}, fmt.Errorf("%w: only workers upload a CV", ErrForbidden)
		}
	default:
		return Session{}, invalid("kind", "unknown upload kind")
	}
	return sess, nil
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidArgument):
		return invalid("file", "content type, size or key not allowed")
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: uploaded object", ErrNotFound)
	default:
		return classify("object storage", err)
	}
}

// invalidateCandidates drops lists a profile change can affect: a worker
// appears in every employer's list and sees jobs through their skills.
func (u *Profiles) invalidateCandidates(ctx context.Context, p profile.Profile) {
	if !p.IsWorker() {
		return
	}
	for _, pat := range []string{
		candidatesRolePattern(profile.RoleEmployer),
		candidatesUserPattern(profile.RoleWorker, p.ID),
	} {
		if err := u.cache.DeleteByPattern(ctx, pat); err != nil {
			u.logger.Warn("candidate cache invalidation failed", slog.String("pattern", pat), slog.Any("err", err))
		}
	}
}

// normalizeProfile trims and canonicalizes p in place and reports field
// problems. Worker-only fields are refused for employers.
func normalizeProfile(p *profile.Profile) map[string]string {
	fields := map[string]string{}

	p.FullName = strings.TrimSpace(p.FullName)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Experience = strings.TrimSpace(p.Experience)
	p.Availability = strings.TrimSpace(p.Availability)
	p.LinkedInURL = strings.TrimSpace(p.LinkedInURL)

	switch {
	case p.FullName == "":
		fields["full_name"] = "is required"
	case len([]rune(p.FullName)) > maxFullNameLength:
		fields["full_name"] = fmt.Sprintf("must be at most %d characters", maxFullNameLength)
	}

	known, unknown := skill.NormalizeSet(p.Skills)
	if len(unknown) > 0 {
		fields["skills"] = "unknown skills: " + strings.Join(unknown, ", ")
	}
	p.Skills = known
	p.Languages = cleanList(p.Languages)

	if p.LinkedInURL != "" {
		if u, err := url.Parse(p.LinkedInURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["linkedin_url"] = "must be an http(s) URL"
		}
	}
	if p.Role == profile.RoleEmployer && p.LinkedInURL != "" {
		fields["linkedin_url"] = "is only available to workers"
	}
	return fields
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		k := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
