package handler

import (
	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/refresh", h.HandleRefresh)
}

func (h *AuthHandler) HandleRegister(c fiber.Ctx) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	usr, tokens, err := h.uc.Register(c.Context(), usecase.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return middleware.FromUsecase(err, "")
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.AuthResponse{
		User:         dto.NewUserResponse(usr),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (h *AuthHandler) HandleLogin(c fiber.Ctx) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	usr, tokens, err := h.uc.Login(c.Context(), usecase.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return middleware.FromUsecase(err, "")
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AuthResponse{
		User:         dto.NewUserResponse(usr),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// HandleRefresh takes the refresh token as a bearer header or in the body.
func (h *AuthHandler) HandleRefresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		var req refreshRequest
		if len(c.Body()) > 0 {
			if err := bindBody(c, &req); err != nil {
				return err
			}
		}
		tok = req.RefreshToken
	}

	tokens, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return middleware.FromUsecase(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, tokens)
}
