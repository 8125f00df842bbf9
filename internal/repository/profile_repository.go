package repository

import (
	"context"
	"fmt"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	ListByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	Update(ctx context.Context, p profile.Profile) (profile.Profile, error)
	// CompleteOnboarding fixes the role; it fails with ErrConflict when a
	// different role was already set.
	CompleteOnboarding(ctx context.Context, p profile.Profile) (profile.Profile, error)
	SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error
	SetCVURL(ctx context.Context, id uuid.UUID, url string) error
	// Ping touches the table so idle databases stay warm.
	Ping(ctx context.Context) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, role, full_name, email, avatar_url, bio, experience, availability,
	skills, languages, cv_url, linkedin_url, has_completed_onboarding, created_at, updated_at`

func (r *PostgresProfileRepository) ListByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE role = $1 AND has_completed_onboarding
		 ORDER BY created_at ASC, id ASC`,
		string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles by role %s: %w", role, err)
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if isNoRows(err) {
			return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, id)
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE profiles SET
			full_name = $2, bio = $3, experience = $4, availability = $5,
			skills = $6, languages = $7, linkedin_url = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+profileColumns,
		p.ID, p.FullName, p.Bio, p.Experience, p.Availability,
		nonNil(p.Skills), nonNil(p.Languages), p.LinkedInURL,
	)
	out, err := scanProfile(row)
	if err != nil {
		if isNoRows(err) {
			return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, p.ID)
		}
		return profile.Profile{}, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) CompleteOnboarding(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE profiles SET
			role = $2, full_name = $3, bio = $4, experience = $5, availability = $6,
			skills = $7, languages = $8, linkedin_url = $9,
			has_completed_onboarding = true, updated_at = now()
		 WHERE id = $1 AND (role IS NULL OR role = $2)
		 RETURNING `+profileColumns,
		p.ID, string(p.Role), p.FullName, p.Bio, p.Experience, p.Availability,
		nonNil(p.Skills), nonNil(p.Languages), p.LinkedInURL,
	)
	out, err := scanProfile(row)
	if err == nil {
		return out, nil
	}
	if !isNoRows(err) {
		return profile.Profile{}, err
	}

	// Distinguish a missing profile from a role that is already fixed.
	if _, getErr := r.GetByID(ctx, p.ID); getErr != nil {
		return profile.Profile{}, getErr
	}
	return profile.Profile{}, fmt.Errorf("%w: role already set for profile %s", ErrConflict, p.ID)
}

func (r *PostgresProfileRepository) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.setColumn(ctx, `UPDATE profiles SET avatar_url = $2, updated_at = now() WHERE id = $1`, id, url)
}

func (r *PostgresProfileRepository) SetCVURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.setColumn(ctx, `UPDATE profiles SET cv_url = $2, updated_at = now() WHERE id = $1`, id, url)
}

func (r *PostgresProfileRepository) setColumn(ctx context.Context, query string, id uuid.UUID, value string) error {
	n, err := r.db.Exec(ctx, query, id, value)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	return nil
}

func (r *PostgresProfileRepository) Ping(ctx context.Context) error {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM profiles LIMIT 1`).Scan(&one)
	if err != nil && !isNoRows(err) {
		return err
	}
	return nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var (
		p    profile.Profile
		role *string
	)
	if err := row.Scan(
		&p.ID, &role, &p.FullName, &p.Email, &p.AvatarURL, &p.Bio, &p.Experience, &p.Availability,
		&p.Skills, &p.Languages, &p.CVURL, &p.LinkedInURL, &p.HasCompletedOnboarding, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return profile.Profile{}, err
	}
	if role != nil {
		p.Role = profile.Role(*role)
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
