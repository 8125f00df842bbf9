package dto

import (
	"time"

	"skillmatch/internal/domain/match"
	"skillmatch/internal/usecase"

	"github.com/google/uuid"
)

type WorkerCandidateResponse struct {
	Profile          ProfileResponse `json:"profile"`
	MatchedRequired  []string        `json:"matched_required"`
	MatchedPreferred []string        `json:"matched_preferred"`
}

type JobCandidateResponse struct {
	Job              JobResponse     `json:"job"`
	Employer         SummaryResponse `json:"employer"`
	MatchedRequired  []string        `json:"matched_required"`
	MatchedPreferred []string        `json:"matched_preferred"`
}

type CandidatesResponse struct {
	Role    string                    `json:"role"`
	JobID   *uuid.UUID                `json:"job_id,omitempty"`
	Workers []WorkerCandidateResponse `json:"workers,omitempty"`
	Jobs    []JobCandidateResponse    `json:"jobs,omitempty"`
}

func NewCandidatesResponse(l usecase.CandidateList) CandidatesResponse {
	res := CandidatesResponse{Role: string(l.Role)}
	if l.JobID != uuid.Nil {
		id := l.JobID
		res.JobID = &id
	}
	if l.Workers != nil {
		res.Workers = make([]WorkerCandidateResponse, 0, len(l.Workers))
		for _, w := range l.Workers {
			res.Workers = append(res.Workers, WorkerCandidateResponse{
				Profile:          NewProfileResponse(w.Profile),
				MatchedRequired:  nonNil(w.MatchedRequired),
				MatchedPreferred: nonNil(w.MatchedPreferred),
			})
		}
	}
	if l.Jobs != nil {
		res.Jobs = make([]JobCandidateResponse, 0, len(l.Jobs))
		for _, j := range l.Jobs {
			res.Jobs = append(res.Jobs, JobCandidateResponse{
				Job:              NewJobResponse(j.Job),
				Employer:         NewSummaryResponse(j.Employer),
				MatchedRequired:  nonNil(j.MatchedRequired),
				MatchedPreferred: nonNil(j.MatchedPreferred),
			})
		}
	}
	return res
}

type MatchResponse struct {
	ID             uuid.UUID `json:"id"`
	JobID          uuid.UUID `json:"job_id"`
	WorkerID       uuid.UUID `json:"worker_id"`
	EmployerID     uuid.UUID `json:"employer_id"`
	EmployerStatus string    `json:"employer_status"`
	WorkerStatus   string    `json:"worker_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewMatchResponse(m match.Match) MatchResponse {
	return MatchResponse{
		ID:             m.ID,
		JobID:          m.JobID,
		WorkerID:       m.WorkerID,
		EmployerID:     m.EmployerID,
		EmployerStatus: string(m.EmployerStatus),
		WorkerStatus:   string(m.WorkerStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type SwipeResponse struct {
	Match            MatchResponse `json:"match"`
	EmployerStatus   string        `json:"employer_status"`
	WorkerStatus     string        `json:"worker_status"`
	IsConfirmedMatch bool          `json:"is_confirmed_match"`
	ConversationID   *uuid.UUID    `json:"conversation_id,omitempty"`
}

func NewSwipeResponse(r usecase.SwipeResult) SwipeResponse {
	return SwipeResponse{
		Match:            NewMatchResponse(r.Match),
		EmployerStatus:   string(r.EmployerStatus),
		WorkerStatus:     string(r.WorkerStatus),
		IsConfirmedMatch: r.IsConfirmedMatch,
	}
}

type MatchedPairResponse struct {
	Match    MatchResponse   `json:"match"`
	Job      JobResponse     `json:"job"`
	Worker   SummaryResponse `json:"worker"`
	Employer SummaryResponse `json:"employer"`
}

func NewMatchedPairResponses(items []usecase.MatchedPair) []MatchedPairResponse {
	out := make([]MatchedPairResponse, 0, len(items))
	for _, p := range items {
		out = append(out, MatchedPairResponse{
			Match:    NewMatchResponse(p.Match),
			Job:      NewJobResponse(p.Job),
			Worker:   NewSummaryResponse(p.Worker),
			Employer: NewSummaryResponse(p.Employer),
		})
	}
	return out
}
