package job

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skillmatch/internal/domain/skill"

	"github.com/google/uuid"
)

type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeHybrid WorkType = "hybrid"
	WorkTypeOnsite WorkType = "onsite"
)

func (w WorkType) Valid() bool {
	switch w {
	case WorkTypeRemote, WorkTypeHybrid, WorkTypeOnsite:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusClosed:
		return true
	default:
		return false
	}
}

// Requirements partitions a job's skills. Required is all-of; Preferred
// never filters. Malformed is set when the stored document could not be
// decoded and makes the job unmatchable.
type Requirements struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
	Malformed bool     `json:"-"`
}

// DecodeRequirements never fails; undecodable input is flagged instead.
func DecodeRequirements(raw []byte) Requirements {
	if len(raw) == 0 || string(raw) == "null" {
		return Requirements{Malformed: true}
	}
	var r Requirements
	if err := json.Unmarshal(raw, &r); err != nil {
		return Requirements{Malformed: true}
	}
	return r
}

func (r Requirements) Encode() ([]byte, error) {
	req, pref := r.Required, r.Preferred
	if req == nil {
		req = []string{}
	}
	if pref == nil {
		pref = []string{}
	}
	return json.Marshal(Requirements{Required: req, Preferred: pref})
}

type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (s SalaryRange) Valid() bool {
	return s.Min >= 0 && s.Max >= 0 && s.Min <= s.Max
}

type Job struct {
	ID           uuid.UUID
	EmployerID   uuid.UUID
	Title        string
	Description  string
	Requirements Requirements
	SalaryRange  SalaryRange
	Location     string
	WorkType     WorkType
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (j Job) IsPublished() bool { return j.Status == StatusPublished }

func (j Job) OwnedBy(employerID uuid.UUID) bool {
	return employerID != uuid.Nil && j.EmployerID == employerID
}

// FieldErrors maps a request field to a human readable problem.
type FieldErrors map[string]string

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
)

// Normalize trims text fields and canonicalizes skill tags in place, then
// reports per-field problems. A nil result means the job is valid.
func (j *Job) Normalize() FieldErrors {
	errs := FieldErrors{}

	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	j.Location = strings.TrimSpace(j.Location)

	switch {
	case j.Title == "":
		errs["title"] = "is required"
	case len(j.Title) > MaxTitleLength:
		errs["title"] = fmt.Sprintf("must be at most %d characters", MaxTitleLength)
	}

	switch {
	case j.Description == "":
		errs["description"] = "is required"
	case len(j.Description) > MaxDescriptionLength:
		errs["description"] = fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)
	}

	req, unknownReq := skill.NormalizeSet(j.Requirements.Required)
	switch {
	case len(unknownReq) > 0:
		errs["requirements.required"] = "unknown skills: " + strings.Join(unknownReq, ", ")
	case len(req) == 0:
		errs["requirements.required"] = "at least one required skill is needed"
	}
	pref, unknownPref := skill.NormalizeSet(j.Requirements.Preferred)
	if len(unknownPref) > 0 {
		errs["requirements.preferred"] = "unknown skills: " + strings.Join(unknownPref, ", ")
	}
	j.Requirements = Requirements{Required: req, Preferred: pref}

	if !j.SalaryRange.Valid() {
		errs["salary_range"] = "min and max must be non-negative and min <= max"
	}

	if j.Location == "" && j.WorkType != WorkTypeRemote {
		errs["location"] = "is required unless the job is remote"
	}

	if !j.WorkType.Valid() {
		errs["work_type"] = "must be one of remote, hybrid, onsite"
	}

	if j.Status == "" {
		j.Status = StatusPublished
	}
	if !j.Status.Valid() {
		errs["status"] = "must be one of draft, published, closed"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
