package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"skillmatch/internal/pkg/jwt"
	"skillmatch/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type TokenParser interface {
	ParseAccessToken(token string) (jwt.Claims, error)
}

type Handler struct {
	hub     *Hub
	tokens  TokenParser
	access  AccessChecker
	origins map[string]struct{}
	ctx     context.Context
	logger  *slog.Logger
}

// NewHandler accepts connections from the listed origins; "*" or an empty
// list allows any origin. ctx bounds the lifetime of every connection.
func NewHandler(ctx context.Context, hub *Hub, tokens TokenParser, access AccessChecker, origins []string, log *slog.Logger) *Handler {
	h := &Handler{hub: hub, tokens: tokens, access: access, ctx: ctx, logger: logger.OrDiscard(log)}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			h.origins = nil
			break
		}
		if o != "" {
			if h.origins == nil {
				h.origins = make(map[string]struct{})
			}
			h.origins[o] = struct{}{}
		}
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.origins == nil {
		return true
	}
	_, ok := h.origins[r.Header.Get("Origin")]
	return ok
}

// HandleConnect authenticates with ?token= (browsers cannot set headers on a
// websocket handshake) or a bearer header, then upgrades.
func (h *Handler) HandleConnect(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		if v, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok {
			token = strings.TrimSpace(v)
		}
	}
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing token")
	}
	claims, err := h.tokens.ParseAccessToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", slog.Any("err", err))
			return
		}
		h.serve(conn, claims.UserID)
	})(c)
}

func (h *Handler) serve(conn *websocket.Conn, userID uuid.UUID) {
	client := NewClient(h.hub, conn, userID, h.access)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump(h.ctx)
}
