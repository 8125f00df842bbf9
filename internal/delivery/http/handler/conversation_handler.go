package handler

import (
	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgConversationNotFound = "Conversation not found"

type ConversationHandler struct {
	uc usecase.ConversationUsecase
}

type openConversationRequest struct {
	UserID string `json:"user_id"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type markReadResponse struct {
	Updated int64 `json:"updated"`
}

func NewConversationHandler(uc usecase.ConversationUsecase) *ConversationHandler {
	return &ConversationHandler{uc: uc}
}

func (h *ConversationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/conversations", h.HandleListConversations)
	r.Post("/conversations", h.HandleOpenConversation)
	r.Get("/conversations/:id/messages", h.HandleListMessages)
	r.Post("/conversations/:id/messages", h.HandleSendMessage)
	r.Post("/conversations/:id/read", h.HandleMarkRead)
}

func (h *ConversationHandler) HandleListConversations(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return middleware.FromUsecase(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationSummaryResponses(items))
}

func (h *ConversationHandler) HandleOpenConversation(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req openConversationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	otherID, err := parseOptionalUUID(req.UserID, "user_id")
	if err != nil {
		return err
	}

	conv, err := h.uc.Open(c.Context(), userID, otherID)
	if err != nil {
		return middleware.FromUsecase(err, "User not found")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationResponse(conv))
}

func (h *ConversationHandler) HandleListMessages(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	before, err := parseQueryTime(c, "before")
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return err
	}

	items, err := h.uc.Messages(c.Context(), userID, id, before, limit)
	if err != nil {
		return middleware.FromUsecase(err, msgConversationNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMessageResponses(items))
}

func (h *ConversationHandler) HandleSendMessage(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req sendMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	msg, err := h.uc.Send(c.Context(), userID, id, req.Content)
	if err != nil {
		return middleware.FromUsecase(err, msgConversationNotFound)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewMessageResponse(msg))
}

func (h *ConversationHandler) HandleMarkRead(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	n, err := h.uc.MarkRead(c.Context(), userID, id)
	if err != nil {
		return middleware.FromUsecase(err, msgConversationNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, markReadResponse{Updated: n})
}
