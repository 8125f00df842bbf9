package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

type WorkerCandidate struct {
	Profile          profile.Profile `json:"profile"`
	MatchedRequired  []string        `json:"matched_required"`
	MatchedPreferred []string        `json:"matched_preferred"`
}

type JobCandidate struct {
	Job              job.Job         `json:"job"`
	Employer         profile.Summary `json:"employer"`
	MatchedRequired  []string        `json:"matched_required"`
	MatchedPreferred []string        `json:"matched_preferred"`
}

// CandidateList holds Workers for an employer caller and Jobs for a
// worker caller, in created_at, id order.
type CandidateList struct {
	Role    profile.Role      `json:"role"`
	JobID   uuid.UUID         `json:"job_id"`
	Workers []WorkerCandidate `json:"workers"`
	Jobs    []JobCandidate    `json:"jobs"`
}

type CandidatesUsecase interface {
	// GetCandidates lists what the caller may swipe on next. jobID is
	// required for employers and ignored for workers.
	GetCandidates(ctx context.Context, userID, jobID uuid.UUID) (CandidateList, error)
}

type CandidatesOptions struct {
	CacheTTL          time.Duration
	EnrichConcurrency int
}

type Candidates struct {
	sessions SessionService
	profiles repository.ProfileRepository
	jobs     repository.JobRepository
	matches  repository.MatchRepository
	cache    Cache
	opts     CandidatesOptions
	logger   *slog.Logger
}

func NewCandidatesUsecase(
	sessions SessionService,
	profiles repository.ProfileRepository,
	jobs repository.JobRepository,
	matches repository.MatchRepository,
	cache Cache,
	opts CandidatesOptions,
	log *slog.Logger,
) *Candidates {
	return &Candidates{
		sessions: sessions,
		profiles: profiles,
		jobs:     jobs,
		matches:  matches,
		cache:    cacheOrNoop(cache),
		opts:     opts,
		logger:   logger.OrDiscard(log),
	}
}

func (u *Candidates) GetCandidates(ctx context.Context, userID, jobID uuid.UUID) (CandidateList, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return CandidateList{}, err
	}
	if sess.Role == profile.RoleWorker {
		jobID = uuid.Nil
	}

	party, err := u.party(ctx, sess, jobID)
	if err != nil {
		return CandidateList{}, err
	}

	// Exclusions are re-read on every call, cache hit or not.
	rows, err := u.matches.ListForParty(ctx, party.Role(), party.ID())
	if err != nil {
		return CandidateList{}, classify("list matches", err)
	}
	excluded := make(map[uuid.UUID]struct{}, len(rows))
	for _, m := range rows {
		k, ok := party.CounterpartKey(m)
		if ok && m.IsTerminallyExcluded() {
			excluded[k] = struct{}{}
		}
	}

	key := CandidatesCacheKey(sess.Role, sess.UserID, jobID)
	var cached CandidateList
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached.without(excluded), nil
	}

	list, err := party.ListCandidates(ctx, candidateSource{
		profiles:    u.profiles,
		jobs:        u.jobs,
		concurrency: u.opts.EnrichConcurrency,
		logger:      u.logger,
	}, excluded)
	if err != nil {
		return CandidateList{}, err
	}

	if err := u.cache.SetJSON(ctx, key, list, u.opts.CacheTTL); err != nil {
		u.logger.Debug("candidate cache write failed", slog.String("key", key), slog.Any("err", err))
	}
	return list, nil
}

func (u *Candidates) party(ctx context.Context, sess Session, jobID uuid.UUID) (MatchParty, error) {
	switch sess.Role {
	case profile.RoleWorker:
		self, err := u.profiles.GetByID(ctx, sess.UserID)
		if err != nil {
			return nil, classify("load worker profile", err)
		}
		return newWorkerParty(self), nil
	case profile.RoleEmployer:
		if jobID == uuid.Nil {
			return nil, invalid("job_id", "is required")
		}
		j, err := u.jobs.GetByID(ctx, jobID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: job no longer available", ErrNotFound)
			}
			return nil, classify("load job", err)
		}
		if !j.OwnedBy(sess.UserID) {
			return nil, fmt.Errorf("%w: job %s is not owned by caller", ErrForbidden, jobID)
		}
		if !j.IsPublished() {
			return nil, fmt.Errorf("%w: job no longer available", ErrNotFound)
		}
		return newEmployerParty(sess.UserID, j), nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, sess.Role)
	}
}

// without drops every entry whose counterpart key is in excluded.
func (l CandidateList) without(excluded map[uuid.UUID]struct{}) CandidateList {
	if len(excluded) == 0 {
		return l
	}
	out := l
	out.Workers = make([]WorkerCandidate, 0, len(l.Workers))
	for _, c := range l.Workers {
		if _, ok := excluded[c.Profile.ID]; !ok {
			out.Workers = append(out.Workers, c)
		}
	}
	out.Jobs = make([]JobCandidate, 0, len(l.Jobs))
	for _, c := range l.Jobs {
		if _, ok := excluded[c.Job.ID]; !ok {
			out.Jobs = append(out.Jobs, c)
		}
	}
	return out
}
