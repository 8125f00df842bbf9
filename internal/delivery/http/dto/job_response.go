package dto

import (
	"time"

	"skillmatch/internal/domain/job"

	"github.com/google/uuid"
)

type RequirementsBody struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

type SalaryRangeBody struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type JobResponse struct {
	ID           uuid.UUID        `json:"id"`
	EmployerID   uuid.UUID        `json:"employer_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Requirements RequirementsBody `json:"requirements"`
	SalaryRange  SalaryRangeBody  `json:"salary_range"`
	Location     string           `json:"location"`
	WorkType     string           `json:"work_type"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Description: j.Description,
		Requirements: RequirementsBody{
			Required:  nonNil(j.Requirements.Required),
			Preferred: nonNil(j.Requirements.Preferred),
		},
		SalaryRange: SalaryRangeBody{Min: j.SalaryRange.Min, Max: j.SalaryRange.Max},
		Location:    j.Location,
		WorkType:    string(j.WorkType),
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func NewJobResponses(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}
