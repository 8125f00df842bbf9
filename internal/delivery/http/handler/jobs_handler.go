package handler

import (
	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/domain/job"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgJobGone = "Job no longer available"

type JobsHandler struct {
	uc usecase.JobUsecase
}

type jobRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Requirements dto.RequirementsBody `json:"requirements"`
	SalaryRange  dto.SalaryRangeBody  `json:"salary_range"`
	Location     string               `json:"location"`
	WorkType     string               `json:"work_type"`
	Status       string               `json:"status"`
}

func (r jobRequest) input() usecase.JobInput {
	return usecase.JobInput{
		Title:       r.Title,
		Description: r.Description,
		Requirements: job.Requirements{
			Required:  r.Requirements.Required,
			Preferred: r.Requirements.Preferred,
		},
		SalaryRange: job.SalaryRange{Min: r.SalaryRange.Min, Max: r.SalaryRange.Max},
		Location:    r.Location,
		WorkType:    r.WorkType,
		Status:      r.Status,
	}
}

type jobStatusRequest struct {
	Status string `json:"status"`
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/jobs", h.HandleCreateJob)
	r.Get("/jobs/mine", h.HandleListMyJobs)
	r.Get("/jobs/:id", h.HandleGetJob)
	r.Put("/jobs/:id", h.HandleUpdateJob)
	r.Patch("/jobs/:id/status", h.HandleUpdateJobStatus)
	r.Delete("/jobs/:id", h.HandleDeleteJob)
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.Create(c.Context(), userID, req.input())
	if err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleListMyJobs(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), userID)
	if err != nil {
		return middleware.FromUsecase(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponses(items))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	j, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleUpdateJob(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.Update(c.Context(), userID, id, req.input())
	if err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleUpdateJobStatus(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req jobStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.UpdateStatus(c.Context(), userID, id, req.Status)
	if err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleDeleteJob(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
