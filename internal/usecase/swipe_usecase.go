package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

type SwipeInput struct {
	JobID      uuid.UUID
	WorkerID   uuid.UUID
	EmployerID uuid.UUID
	Decision   string
}

type SwipeResult struct {
	Match            match.Match
	EmployerStatus   match.Status
	WorkerStatus     match.Status
	IsConfirmedMatch bool
}

type SwipeUsecase interface {
	// Swipe records the caller's decision on the (job, worker) pair. Only
	// the caller's own status field is written.
	Swipe(ctx context.Context, userID uuid.UUID, in SwipeInput) (SwipeResult, error)
}

type Swipes struct {
	sessions SessionService
	profiles repository.ProfileRepository
	jobs     repository.JobRepository
	matches  repository.MatchRepository
	cache    Cache
	notifier Notifier
	metrics  SwipeMetrics
	logger   *slog.Logger
}

func NewSwipeUsecase(
	sessions SessionService,
	profiles repository.ProfileRepository,
	jobs repository.JobRepository,
	matches repository.MatchRepository,
	cache Cache,
	notifier Notifier,
	metrics SwipeMetrics,
	log *slog.Logger,
) *Swipes {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Swipes{
		sessions: sessions,
		profiles: profiles,
		jobs:     jobs,
		matches:  matches,
		cache:    cacheOrNoop(cache),
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.OrDiscard(log),
	}
}

func (u *Swipes) Swipe(ctx context.Context, userID uuid.UUID, in SwipeInput) (SwipeResult, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return SwipeResult{}, err
	}

	decision, err := match.ParseDecision(in.Decision)
	if err != nil {
		return SwipeResult{}, invalid("decision", "must be accepted or rejected")
	}
	if in.JobID == uuid.Nil {
		return SwipeResult{}, invalid("job_id", "is required")
	}
	if in.WorkerID == uuid.Nil {
		return SwipeResult{}, invalid("worker_id", "is required")
	}

	j, err := u.publishedJob(ctx, in.JobID)
	if err != nil {
		return SwipeResult{}, err
	}
	if in.EmployerID == uuid.Nil {
		in.EmployerID = j.EmployerID
	}

	var party MatchParty
	switch sess.Role {
	case profile.RoleWorker:
		party = newWorkerParty(profile.Profile{ID: sess.UserID, Role: profile.RoleWorker})
	case profile.RoleEmployer:
		party = newEmployerParty(sess.UserID, j)
	default:
		return SwipeResult{}, fmt.Errorf("%w: unknown role %q", ErrForbidden, sess.Role)
	}
	if err := party.authorizeSwipe(in, j); err != nil {
		return SwipeResult{}, err
	}

	if party.Role() == profile.RoleEmployer {
		w, err := u.profiles.GetByID(ctx, in.WorkerID)
		if err != nil {
			return SwipeResult{}, classify("load worker", err)
		}
		if !w.IsWorker() {
			return SwipeResult{}, fmt.Errorf("%w: %s is not a worker", ErrNotFound, in.WorkerID)
		}
	}

	m, err := u.matches.UpsertField(ctx, repository.UpsertMatchField{
		JobID:      j.ID,
		WorkerID:   in.WorkerID,
		EmployerID: j.EmployerID,
		Role:       party.Role(),
		Status:     decision,
	})
	if err != nil {
		return SwipeResult{}, classify("record swipe", err)
	}

	res := SwipeResult{
		Match:            m,
		EmployerStatus:   m.EmployerStatus,
		WorkerStatus:     m.WorkerStatus,
		IsConfirmedMatch: m.IsConfirmed(),
	}

	u.metrics.SwipeRecorded(party.Role(), decision)
	u.invalidate(ctx, m)

	u.logger.Info("swipe recorded",
		slog.String("job_id", m.JobID.String()),
		slog.String("worker_id", m.WorkerID.String()),
		slog.String("role", string(party.Role())),
		slog.String("decision", string(party.OwnStatus(m))),
		slog.Bool("confirmed", res.IsConfirmedMatch),
	)

	if res.IsConfirmedMatch {
		u.metrics.MatchConfirmed()
		u.notifier.MatchConfirmed(ctx, m)
	}
	return res, nil
}

func (u *Swipes) publishedJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Job{}, fmt.Errorf("%w: job no longer available", ErrNotFound)
		}
		return job.Job{}, classify("load job", err)
	}
	if !j.IsPublished() {
		return job.Job{}, fmt.Errorf("%w: job no longer available", ErrNotFound)
	}
	return j, nil
}

func (u *Swipes) invalidate(ctx context.Context, m match.Match) {
	for _, p := range []string{
		candidatesUserPattern(profile.RoleWorker, m.WorkerID),
		candidatesUserPattern(profile.RoleEmployer, m.EmployerID),
	} {
		if err := u.cache.DeleteByPattern(ctx, p); err != nil {
			u.logger.Warn("candidate cache invalidation failed", slog.String("pattern", p), slog.Any("err", err))
		}
	}
}
