package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

type JobInput struct {
	Title        string
	Description  string
	Requirements job.Requirements
	SalaryRange  job.SalaryRange
	Location     string
	WorkType     string
	Status       string
}

func (in JobInput) toJob(id, employerID uuid.UUID) job.Job {
	return job.Job{
		ID:           id,
		EmployerID:   employerID,
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		SalaryRange:  in.SalaryRange,
		Location:     in.Location,
		WorkType:     job.WorkType(strings.ToLower(strings.TrimSpace(in.WorkType))),
		Status:       job.Status(strings.ToLower(strings.TrimSpace(in.Status))),
	}
}

type JobUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in JobInput) (job.Job, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]job.Job, error)
	// Get returns a published job to anyone onboarded; drafts and closed
	// jobs are visible to their owner only.
	Get(ctx context.Context, userID, id uuid.UUID) (job.Job, error)
	Update(ctx context.Context, userID, id uuid.UUID, in JobInput) (job.Job, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (job.Job, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Jobs struct {
	sessions SessionService
	jobs     repository.JobRepository
	cache    Cache
	logger   *slog.Logger
}

func NewJobUsecase(sessions SessionService, jobs repository.JobRepository, cache Cache, log *slog.Logger) *Jobs {
	return &Jobs{sessions: sessions, jobs: jobs, cache: cacheOrNoop(cache), logger: logger.OrDiscard(log)}
}

func (u *Jobs) employer(ctx context.Context, userID uuid.UUID) (Session, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Role != profile.RoleEmployer {
		return Session{}, fmt.Errorf("%w: only employers manage jobs", ErrForbidden)
	}
	return sess, nil
}

func (u *Jobs) Create(ctx context.Context, userID uuid.UUID, in JobInput) (job.Job, error) {
	sess, err := u.employer(ctx, userID)
	if err != nil {
		return job.Job{}, err
	}

	j := in.toJob(uuid.New(), sess.UserID)
	if fields := j.Normalize(); fields != nil {
		return job.Job{}, &ValidationError{Fields: fields}
	}

	created, err := u.jobs.Create(ctx, j)
	if err != nil {
		return job.Job{}, classify("create job", err)
	}
	u.invalidate(ctx, sess.UserID)
	u.logger.Info("job created", slog.String("job_id", created.ID.String()), slog.String("employer_id", sess.UserID.String()))
	return created, nil
}

func (u *Jobs) ListMine(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	sess, err := u.employer(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := u.jobs.ListByEmployer(ctx, sess.UserID)
	if err != nil {
		return nil, classify("list jobs", err)
	}
	return items, nil
}

func (u *Jobs) Get(ctx context.Context, userID, id uuid.UUID) (job.Job, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return job.Job{}, err
	}
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Job{}, fmt.Errorf("%w: job no longer available", ErrNotFound)
		}
		return job.Job{}, classify("get job", err)
	}
	if !j.IsPublished() && !j.OwnedBy(sess.UserID) {
		return job.Job{}, fmt.Errorf("%w: job no longer available", ErrNotFound)
	}
	return j, nil
}

func (u *Jobs) Update(ctx context.Context, userID, id uuid.UUID, in JobInput) (job.Job, error) {
	sess, err := u.employer(ctx, userID)
	if err != nil {
		return job.Job{}, err
	}

	j := in.toJob(id, sess.UserID)
	if fields := j.Normalize(); fields != nil {
		return job.Job{}, &ValidationError{Fields: fields}
	}

	updated, err := u.jobs.Update(ctx, j)
	if err != nil {
		return job.Job{}, classify("update job", err)
	}
	u.invalidate(ctx, sess.UserID)
	return updated, nil
}

func (u *Jobs) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (job.Job, error) {
	sess, err := u.employer(ctx, userID)
	if err != nil {
		return job.Job{}, err
	}

	st := job.Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return job.Job{}, invalid("status", "must be one of draft, published, closed")
	}

	updated, err := u.jobs.UpdateStatus(ctx, id, sess.UserID, st)
	if err != nil {
		return job.Job{}, classify("update job status", err)
	}
	u.invalidate(ctx, sess.UserID)
	u.logger.Info("job status changed", slog.String("job_id", id.String()), slog.String("status", string(st)))
	return updated, nil
}

func (u *Jobs) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sess, err := u.employer(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.jobs.Delete(ctx, id, sess.UserID); err != nil {
		return classify("delete job", err)
	}
	u.invalidate(ctx, sess.UserID)
	return nil
}

// invalidate drops every worker's job candidates and the owner's worker
// candidates, since requirements or visibility may have changed.
func (u *Jobs) invalidate(ctx context.Context, employerID uuid.UUID) {
	for _, p := range []string{
		candidatesRolePattern(profile.RoleWorker),
		candidatesUserPattern(profile.RoleEmployer, employerID),
	} {
		if err := u.cache.DeleteByPattern(ctx, p); err != nil {
			u.logger.Warn("candidate cache invalidation failed", slog.String("pattern", p), slog.Any("err", err))
		}
	}
}
