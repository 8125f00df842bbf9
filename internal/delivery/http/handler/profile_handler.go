package handler

import (
	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/infrastructure/storage"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type onboardingRequest struct {
	Role         string   `json:"role"`
	FullName     string   `json:"full_name"`
	Bio          string   `json:"bio"`
	Experience   string   `json:"experience"`
	Availability string   `json:"availability"`
	Skills       []string `json:"skills"`
	Languages    []string `json:"languages"`
	LinkedInURL  string   `json:"linkedin_url"`
}

type profileUpdateRequest struct {
	FullName     *string  `json:"full_name"`
	Bio          *string  `json:"bio"`
	Experience   *string  `json:"experience"`
	Availability *string  `json:"availability"`
	LinkedInURL  *string  `json:"linkedin_url"`
	Skills       []string `json:"skills"`
	Languages    []string `json:"languages"`
}

type uploadURLRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type uploadConfirmRequest struct {
	ObjectKey string `json:"object_key"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.HandleGetMe)
	r.Put("/me", h.HandleUpdateMe)
	r.Post("/me/onboarding", h.HandleOnboarding)
	r.Post("/me/avatar/upload-url", h.handleUploadURL(storage.KindAvatar))
	r.Post("/me/avatar/confirm", h.handleConfirmUpload(storage.KindAvatar))
	r.Post("/me/cv/upload-url", h.handleUploadURL(storage.KindCV))
	r.Post("/me/cv/confirm", h.handleConfirmUpload(storage.KindCV))
}

func (h *ProfileHandler) HandleGetMe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return middleware.FromUsecase(err, "Profile not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) HandleOnboarding(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req onboardingRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.CompleteOnboarding(c.Context(), userID, usecase.OnboardingInput{
		Role:         req.Role,
		FullName:     req.FullName,
		Bio:          req.Bio,
		Experience:   req.Experience,
		Availability: req.Availability,
		Skills:       req.Skills,
		Languages:    req.Languages,
		LinkedInURL:  req.LinkedInURL,
	})
	if err != nil {
		return middleware.FromUsecase(err, "Profile not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) HandleUpdateMe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req profileUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Update(c.Context(), userID, usecase.ProfileUpdate{
		FullName:     req.FullName,
		Bio:          req.Bio,
		Experience:   req.Experience,
		Availability: req.Availability,
		LinkedInURL:  req.LinkedInURL,
		Skills:       req.Skills,
		Languages:    req.Languages,
	})
	if err != nil {
		return middleware.FromUsecase(err, "Profile not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) handleUploadURL(kind storage.Kind) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return err
		}
		var req uploadURLRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		info, err := h.uc.RequestUpload(c.Context(), userID, kind, req.ContentType, req.ContentLength)
		if err != nil {
			return middleware.FromUsecase(err, "")
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUploadResponse(info))
	}
}

func (h *ProfileHandler) handleConfirmUpload(kind storage.Kind) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return err
		}
		var req uploadConfirmRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}

		p, err := h.uc.ConfirmUpload(c.Context(), userID, kind, req.ObjectKey)
		if err != nil {
			return middleware.FromUsecase(err, "Uploaded object not found")
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
	}
}
