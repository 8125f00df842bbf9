// Package match models the per (job, worker) reconciliation record. Each
// side owns exactly one status field and only ever writes that field.
package match

import (
	"errors"
	"strings"
	"time"

	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var ErrInvalidDecision = errors.New("decision must be accepted or rejected")

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// ParseDecision accepts the two values a swipe may carry.
func ParseDecision(s string) (Status, error) {
	switch d := Status(strings.ToLower(strings.TrimSpace(s))); d {
	case StatusAccepted, StatusRejected:
		return d, nil
	default:
		return "", ErrInvalidDecision
	}
}

type Match struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	WorkerID       uuid.UUID
	EmployerID     uuid.UUID
	EmployerStatus Status
	WorkerStatus   Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New is the record produced by the first swipe on a pair: the acting side
// holds the decision and the other side starts pending.
func New(jobID, workerID, employerID uuid.UUID, role profile.Role, decision Status) Match {
	m := Match{
		JobID:          jobID,
		WorkerID:       workerID,
		EmployerID:     employerID,
		EmployerStatus: StatusPending,
		WorkerStatus:   StatusPending,
	}
	return m.Apply(role, decision)
}

// Apply returns m with only role's field set to decision.
func (m Match) Apply(role profile.Role, decision Status) Match {
	switch role {
	case profile.RoleEmployer:
		m.EmployerStatus = decision
	case profile.RoleWorker:
		m.WorkerStatus = decision
	}
	return m
}

func (m Match) StatusOf(role profile.Role) Status {
	switch role {
	case profile.RoleEmployer:
		return m.EmployerStatus
	case profile.RoleWorker:
		return m.WorkerStatus
	default:
		return ""
	}
}

func (m Match) IsConfirmed() bool {
	return m.EmployerStatus == StatusAccepted && m.WorkerStatus == StatusAccepted
}

func (m Match) IsRejected() bool {
	return m.EmployerStatus == StatusRejected || m.WorkerStatus == StatusRejected
}

// IsTerminallyExcluded reports whether the pair must never be offered again.
func (m Match) IsTerminallyExcluded() bool {
	return m.IsRejected() || m.IsConfirmed()
}

// IsHalfMatched reports one side accepted while the other is still pending.
// Such pairs stay offerable.
func (m Match) IsHalfMatched() bool {
	return (m.EmployerStatus == StatusAccepted && m.WorkerStatus == StatusPending) ||
		(m.WorkerStatus == StatusAccepted && m.EmployerStatus == StatusPending)
}

// Involves reports whether userID is either party of the pair.
func (m Match) Involves(userID uuid.UUID) bool {
	return userID != uuid.Nil && (m.WorkerID == userID || m.EmployerID == userID)
}
