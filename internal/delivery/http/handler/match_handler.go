package handler

import (
	"context"
	"log/slog"

	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ConversationOpener starts the chat for a freshly confirmed match.
type ConversationOpener interface {
	Open(ctx context.Context, userID, otherID uuid.UUID) (conversation.Conversation, error)
}

type MatchHandler struct {
	candidates usecase.CandidatesUsecase
	swipes     usecase.SwipeUsecase
	matches    usecase.MatchesUsecase
	convs      ConversationOpener
	logger     *slog.Logger
}

type swipeRequest struct {
	JobID      string `json:"job_id"`
	WorkerID   string `json:"worker_id"`
	EmployerID string `json:"employer_id"`
	Decision   string `json:"decision"`
}

func NewMatchHandler(
	candidates usecase.CandidatesUsecase,
	swipes usecase.SwipeUsecase,
	matches usecase.MatchesUsecase,
	convs ConversationOpener,
	log *slog.Logger,
) *MatchHandler {
	return &MatchHandler{
		candidates: candidates,
		swipes:     swipes,
		matches:    matches,
		convs:      convs,
		logger:     logger.OrDiscard(log),
	}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/candidates", h.HandleListCandidates)
	r.Post("/swipes", h.HandleSwipe)
	r.Get("/matches", h.HandleListMatches)
}

func (h *MatchHandler) HandleListCandidates(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	jobID, err := parseOptionalUUID(c.Query("job_id"), "job_id")
	if err != nil {
		return err
	}

	list, err := h.candidates.GetCandidates(c.Context(), userID, jobID)
	if err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidatesResponse(list))
}

func (h *MatchHandler) HandleSwipe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req swipeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	var in usecase.SwipeInput
	if in.JobID, err = parseOptionalUUID(req.JobID, "job_id"); err != nil {
		return err
	}
	if in.WorkerID, err = parseOptionalUUID(req.WorkerID, "worker_id"); err != nil {
		return err
	}
	if in.EmployerID, err = parseOptionalUUID(req.EmployerID, "employer_id"); err != nil {
		return err
	}
	in.Decision = req.Decision

	res, err := h.swipes.Swipe(c.Context(), userID, in)
	if err != nil {
		return middleware.FromUsecase(err, msgJobGone)
	}

	out := dto.NewSwipeResponse(res)
	if res.IsConfirmedMatch && h.convs != nil {
		other := res.Match.WorkerID
		if other == userID {
			other = res.Match.EmployerID
		}
		// The match stands even if the chat cannot be opened yet; either
		// side can open it later.
		conv, err := h.convs.Open(c.Context(), userID, other)
		if err != nil {
			h.logger.Warn("open conversation after match failed",
				slog.String("match_id", res.Match.ID.String()),
				slog.Any("err", err),
			)
		} else {
			out.ConversationID = &conv.ID
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) HandleListMatches(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.matches.ListConfirmed(c.Context(), userID)
	if err != nil {
		return middleware.FromUsecase(err, "")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchedPairResponses(items))
}
