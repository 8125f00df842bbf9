package usecase

import (
	"context"
	"errors"
	"log/slog"

	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

// MatchedPair is a confirmed match with both sides resolved for display.
type MatchedPair struct {
	Match    match.Match
	Job      job.Job
	Worker   profile.Summary
	Employer profile.Summary
}

type MatchesUsecase interface {
	// ListConfirmed returns matched workers for an employer and matched
	// jobs for a worker, most recently confirmed first.
	ListConfirmed(ctx context.Context, userID uuid.UUID) ([]MatchedPair, error)
}

type Matches struct {
	sessions SessionService
	profiles repository.ProfileRepository
	jobs     repository.JobRepository
	matches  repository.MatchRepository
	logger   *slog.Logger
}

func NewMatchesUsecase(sessions SessionService, profiles repository.ProfileRepository, jobs repository.JobRepository, matches repository.MatchRepository, log *slog.Logger) *Matches {
	return &Matches{sessions: sessions, profiles: profiles, jobs: jobs, matches: matches, logger: logger.OrDiscard(log)}
}

func (u *Matches) ListConfirmed(ctx context.Context, userID uuid.UUID) ([]MatchedPair, error) {
	sess, err := u.sessions.RequireOnboarded(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := u.matches.ListConfirmedForParty(ctx, sess.Role, sess.UserID)
	if err != nil {
		return nil, classify("list confirmed matches", err)
	}

	out := make([]MatchedPair, 0, len(rows))
	for _, m := range rows {
		pair, err := u.resolve(ctx, m)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				u.logger.Warn("skipping match with missing side", slog.String("match_id", m.ID.String()), slog.Any("err", err))
				continue
			}
			return nil, classify("resolve match", err)
		}
		out = append(out, pair)
	}
	return out, nil
}

func (u *Matches) resolve(ctx context.Context, m match.Match) (MatchedPair, error) {
	j, err := u.jobs.GetByID(ctx, m.JobID)
	if err != nil {
		return MatchedPair{}, err
	}
	w, err := u.profiles.GetByID(ctx, m.WorkerID)
	if err != nil {
		return MatchedPair{}, err
	}
	e, err := u.profiles.GetByID(ctx, m.EmployerID)
	if err != nil {
		return MatchedPair{}, err
	}
	return MatchedPair{Match: m, Job: j, Worker: w.Summary(), Employer: e.Summary()}, nil
}
