package match

import (
	"testing"

	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	jobID      = uuid.New()
	workerID   = uuid.New()
	employerID = uuid.New()
)

func TestNew_OtherSideStartsPending(t *testing.T) {
	t.Parallel()

	m := New(jobID, workerID, employerID, profile.RoleEmployer, StatusAccepted)
	require.Equal(t, StatusAccepted, m.EmployerStatus)
	require.Equal(t, StatusPending, m.WorkerStatus)
	require.False(t, m.IsConfirmed())
	require.True(t, m.IsHalfMatched())
	require.False(t, m.IsTerminallyExcluded())

	m = New(jobID, workerID, employerID, profile.RoleWorker, StatusRejected)
	require.Equal(t, StatusPending, m.EmployerStatus)
	require.Equal(t, StatusRejected, m.WorkerStatus)
	require.True(t, m.IsTerminallyExcluded())
}

func TestApply_WritesOnlyOwnField(t *testing.T) {
	t.Parallel()

	base := Match{EmployerStatus: StatusPending, WorkerStatus: StatusPending}

	workerFirst := base.Apply(profile.RoleWorker, StatusAccepted).Apply(profile.RoleEmployer, StatusRejected)
	employerFirst := base.Apply(profile.RoleEmployer, StatusRejected).Apply(profile.RoleWorker, StatusAccepted)

	for _, m := range []Match{workerFirst, employerFirst} {
		require.Equal(t, StatusRejected, m.EmployerStatus)
		require.Equal(t, StatusAccepted, m.WorkerStatus)
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	for _, role := range []profile.Role{profile.RoleWorker, profile.RoleEmployer} {
		for _, d := range []Status{StatusAccepted, StatusRejected} {
			once := New(jobID, workerID, employerID, role, d)
			twice := once.Apply(role, d)
			require.Equal(t, once, twice)
		}
	}
}

func TestApply_UnknownRoleIsNoop(t *testing.T) {
	t.Parallel()

	m := Match{EmployerStatus: StatusPending, WorkerStatus: StatusAccepted}
	require.Equal(t, m, m.Apply("admin", StatusRejected))
}

func TestStateClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		employer, worker    Status
		confirmed, excluded bool
		halfMatched         bool
	}{
		{StatusPending, StatusPending, false, false, false},
		{StatusAccepted, StatusPending, false, false, true},
		{StatusPending, StatusAccepted, false, false, true},
		{StatusAccepted, StatusAccepted, true, true, false},
		{StatusRejected, StatusPending, false, true, false},
		{StatusPending, StatusRejected, false, true, false},
		{StatusAccepted, StatusRejected, false, true, false},
		{StatusRejected, StatusAccepted, false, true, false},
		{StatusRejected, StatusRejected, false, true, false},
	}

	for _, tc := range cases {
		m := Match{EmployerStatus: tc.employer, WorkerStatus: tc.worker}
		require.Equal(t, tc.confirmed, m.IsConfirmed(), "%s/%s", tc.employer, tc.worker)
		require.Equal(t, tc.excluded, m.IsTerminallyExcluded(), "%s/%s", tc.employer, tc.worker)
		require.Equal(t, tc.halfMatched, m.IsHalfMatched(), "%s/%s", tc.employer, tc.worker)
	}
}

func TestParseDecision(t *testing.T) {
	t.Parallel()

	d, err := ParseDecision(" Accepted ")
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, d)

	_, err = ParseDecision("pending")
	require.ErrorIs(t, err, ErrInvalidDecision)
	_, err = ParseDecision("")
	require.ErrorIs(t, err, ErrInvalidDecision)
}

func TestStatusOfAndInvolves(t *testing.T) {
	t.Parallel()

	m := New(jobID, workerID, employerID, profile.RoleWorker, StatusAccepted)
	require.Equal(t, StatusAccepted, m.StatusOf(profile.RoleWorker))
	require.Equal(t, StatusPending, m.StatusOf(profile.RoleEmployer))
	require.True(t, m.Involves(workerID))
	require.True(t, m.Involves(employerID))
	require.False(t, m.Involves(uuid.New()))
	require.False(t, m.Involves(uuid.Nil))
}
