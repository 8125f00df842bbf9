package usecase

import (
	"context"
	"testing"
	"time"

	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type world struct {
	profiles *memProfiles
	jobs     *memJobs
	matches  *memMatches
	convs    *memConversations
	cache    *memCache
	notifier *recordingNotifier
	metrics  *countingMetrics

	sessions      *Sessions
	candidates    *Candidates
	swipes        *Swipes
	jobUC         *Jobs
	profileUC     *Profiles
	conversations *Conversations
	matchesUC     *Matches
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		profiles: newMemProfiles(),
		jobs:     newMemJobs(),
		matches:  newMemMatches(),
		convs:    newMemConversations(),
		cache:    newMemCache(),
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{},
	}
	w.sessions = NewSessionService(w.profiles, w.cache, time.Minute, nil)
	w.candidates = NewCandidatesUsecase(w.sessions, w.profiles, w.jobs, w.matches, w.cache,
		CandidatesOptions{CacheTTL: time.Minute, EnrichConcurrency: 4}, nil)
	w.swipes = NewSwipeUsecase(w.sessions, w.profiles, w.jobs, w.matches, w.cache, w.notifier, w.metrics, nil)
	w.jobUC = NewJobUsecase(w.sessions, w.jobs, w.cache, nil)
	w.profileUC = NewProfileUsecase(w.sessions, w.profiles, nil, w.cache, nil)
	w.conversations = NewConversationUsecase(w.sessions, w.profiles, w.matches, w.convs, w.convs, w.notifier,
		ConversationOptions{PageSize: 20, MaxMessageLength: 100}, nil)
	w.matchesUC = NewMatchesUsecase(w.sessions, w.profiles, w.jobs, w.matches, nil)
	return w
}

func (w *world) workerIDs(t *testing.T, employerID, jobID uuid.UUID) []uuid.UUID {
	t.Helper()
	list, err := w.candidates.GetCandidates(context.Background(), employerID, jobID)
	require.NoError(t, err)
	require.Equal(t, profile.RoleEmployer, list.Role)
	ids := make([]uuid.UUID, 0, len(list.Workers))
	for _, c := range list.Workers {
		ids = append(ids, c.Profile.ID)
	}
	return ids
}

func (w *world) jobIDs(t *testing.T, workerID uuid.UUID) []uuid.UUID {
	t.Helper()
	list, err := w.candidates.GetCandidates(context.Background(), workerID, uuid.Nil)
	require.NoError(t, err)
	require.Equal(t, profile.RoleWorker, list.Role)
	ids := make([]uuid.UUID, 0, len(list.Jobs))
	for _, c := range list.Jobs {
		ids = append(ids, c.Job.ID)
	}
	return ids
}

func (w *world) swipe(t *testing.T, userID uuid.UUID, jobID, workerID, employerID uuid.UUID, decision string) SwipeResult {
	t.Helper()
	res, err := w.swipes.Swipe(context.Background(), userID, SwipeInput{
		JobID: jobID, WorkerID: workerID, EmployerID: employerID, Decision: decision,
	})
	require.NoError(t, err)
	return res
}
