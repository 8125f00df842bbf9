package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/matching"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MatchParty is one side of a (job, worker) pair. It owns the side's
// status field, knows which match rows concern it and lists the
// opposite-role candidates it may swipe on.
type MatchParty interface {
	Role() profile.Role
	ID() uuid.UUID
	OwnStatus(m match.Match) match.Status
	// CounterpartKey returns the candidate id m refers to; false when m
	// lies outside this party's candidate space.
	CounterpartKey(m match.Match) (uuid.UUID, bool)
	ListCandidates(ctx context.Context, src candidateSource, excluded map[uuid.UUID]struct{}) (CandidateList, error)

	authorizeSwipe(in SwipeInput, j job.Job) error
}

type candidateSource struct {
	profiles    repository.ProfileRepository
	jobs        repository.JobRepository
	concurrency int
	logger      *slog.Logger
}

type workerParty struct {
	self profile.Profile
}

func newWorkerParty(p profile.Profile) workerParty { return workerParty{self: p} }

func (w workerParty) Role() profile.Role { return profile.RoleWorker }
func (w workerParty) ID() uuid.UUID      { return w.self.ID }

func (w workerParty) OwnStatus(m match.Match) match.Status { return m.WorkerStatus }

func (w workerParty) CounterpartKey(m match.Match) (uuid.UUID, bool) {
	return m.JobID, m.WorkerID == w.self.ID
}

func (w workerParty) authorizeSwipe(in SwipeInput, j job.Job) error {
	if in.WorkerID != w.self.ID {
		return fmt.Errorf("%w: worker may only swipe for themselves", ErrForbidden)
	}
	if in.EmployerID != j.EmployerID {
		return fmt.Errorf("%w: employer %s does not own job %s", ErrForbidden, in.EmployerID, j.ID)
	}
	return nil
}

func (w workerParty) ListCandidates(ctx context.Context, src candidateSource, excluded map[uuid.UUID]struct{}) (CandidateList, error) {
	jobs, err := src.jobs.ListPublished(ctx)
	if err != nil {
		return CandidateList{}, classify("list published jobs", err)
	}

	matched := make([]JobCandidate, 0, len(jobs))
	for _, j := range jobs {
		if _, skip := excluded[j.ID]; skip {
			continue
		}
		res := matching.Evaluate(w.self.Skills, j.Requirements)
		if res.Malformed {
			src.logger.Debug("skipping job with malformed requirements", slog.String("job_id", j.ID.String()))
			continue
		}
		if !res.Compatible {
			continue
		}
		matched = append(matched, JobCandidate{
			Job:              j,
			MatchedRequired:  res.MatchedRequired,
			MatchedPreferred: res.MatchedPreferred,
		})
	}

	summaries, err := employerSummaries(ctx, src, matched)
	if err != nil {
		return CandidateList{}, err
	}

	out := make([]JobCandidate, 0, len(matched))
	for _, c := range matched {
		s, ok := summaries[c.Job.EmployerID]
		if !ok {
			continue
		}
		c.Employer = s
		out = append(out, c)
	}
	return CandidateList{Role: profile.RoleWorker, Jobs: out, Workers: []WorkerCandidate{}}, nil
}

// employerSummaries fetches each distinct employer once with bounded
// concurrency. Failed lookups are logged and left out of the map.
func employerSummaries(ctx context.Context, src candidateSource, cands []JobCandidate) (map[uuid.UUID]profile.Summary, error) {
	ids := make([]uuid.UUID, 0, len(cands))
	seen := make(map[uuid.UUID]struct{}, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.Job.EmployerID]; ok {
			continue
		}
		seen[c.Job.EmployerID] = struct{}{}
		ids = append(ids, c.Job.EmployerID)
	}

	var (
		mu  sync.Mutex
		out = make(map[uuid.UUID]profile.Summary, len(ids))
	)
	g, gctx := errgroup.WithContext(ctx)
	if src.concurrency > 0 {
		g.SetLimit(src.concurrency)
	}
	for _, id := range ids {
		g.Go(func() error {
			p, err := src.profiles.GetByID(gctx, id)
			if err == nil && !p.IsEmployer() {
				err = fmt.Errorf("profile %s is not an employer", id)
			}
			if err != nil {
				src.logger.Warn("dropping jobs of unresolvable employer",
					slog.String("employer_id", id.String()), slog.Any("err", err))
				return nil
			}
			mu.Lock()
			out[id] = p.Summary()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type employerParty struct {
	id  uuid.UUID
	job job.Job
}

func newEmployerParty(id uuid.UUID, j job.Job) employerParty {
	return employerParty{id: id, job: j}
}

func (e employerParty) Role() profile.Role { return profile.RoleEmployer }
func (e employerParty) ID() uuid.UUID      { return e.id }

func (e employerParty) OwnStatus(m match.Match) match.Status { return m.EmployerStatus }

// CounterpartKey only recognises rows of the job being staffed; decisions
// on other jobs do not hide a worker.
func (e employerParty) CounterpartKey(m match.Match) (uuid.UUID, bool) {
	return m.WorkerID, m.EmployerID == e.id && m.JobID == e.job.ID
}

func (e employerParty) authorizeSwipe(in SwipeInput, j job.Job) error {
	if !j.OwnedBy(e.id) || in.EmployerID != e.id {
		return fmt.Errorf("%w: job %s is not owned by caller", ErrForbidden, j.ID)
	}
	return nil
}

func (e employerParty) ListCandidates(ctx context.Context, src candidateSource, excluded map[uuid.UUID]struct{}) (CandidateList, error) {
	empty := CandidateList{Role: profile.RoleEmployer, JobID: e.job.ID, Workers: []WorkerCandidate{}, Jobs: []JobCandidate{}}

	if matching.Evaluate(nil, e.job.Requirements).Malformed {
		src.logger.Debug("job has malformed requirements, no candidates", slog.String("job_id", e.job.ID.String()))
		return empty, nil
	}

	workers, err := src.profiles.ListByRole(ctx, profile.RoleWorker)
	if err != nil {
		return CandidateList{}, classify("list workers", err)
	}

	out := empty
	for _, w := range workers {
		if _, skip := excluded[w.ID]; skip {
			continue
		}
		res := matching.Evaluate(w.Skills, e.job.Requirements)
		if !res.Compatible {
			continue
		}
		out.Workers = append(out.Workers, WorkerCandidate{
			Profile:          w,
			MatchedRequired:  res.MatchedRequired,
			MatchedPreferred: res.MatchedPreferred,
		})
	}
	return out, nil
}
