package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
	seenCapacity   = 256
)

// AccessChecker decides whether a user may follow a conversation.
type AccessChecker interface {
	CanAccess(ctx context.Context, userID, conversationID uuid.UUID) (bool, error)
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	access AccessChecker
	send   chan []byte

	// Owned by the hub goroutine.
	subs map[uuid.UUID]struct{}
	seen *recentSet
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, access AccessChecker) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		access: access,
		send:   make(chan []byte, sendBuffer),
		subs:   make(map[uuid.UUID]struct{}),
		seen:   newRecentSet(seenCapacity),
	}
}

type inbound struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// ReadPump handles subscribe and unsubscribe requests until the socket
// closes, then unregisters the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("read failed", slog.String("user_id", c.userID.String()), slog.Any("err", err))
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(newErrorEvent("malformed message"))
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *Client) handle(ctx context.Context, msg inbound) {
	switch msg.Type {
	case "subscribe":
		ok, err := c.access.CanAccess(ctx, c.userID, msg.ConversationID)
		if err != nil {
			c.hub.logger.Warn("access check failed", slog.String("user_id", c.userID.String()), slog.Any("err", err))
			c.reply(newErrorEvent("temporarily unavailable"))
			return
		}
		if !ok {
			c.reply(newErrorEvent("conversation not found"))
			return
		}
		c.hub.Subscribe(c, msg.ConversationID)
		c.reply(newAckEvent("subscribed", msg.ConversationID))
	case "unsubscribe":
		c.hub.Unsubscribe(c, msg.ConversationID)
		c.reply(newAckEvent("unsubscribed", msg.ConversationID))
	case "ping":
		c.reply(event{Type: "pong"})
	default:
		c.reply(newErrorEvent("unknown message type"))
	}
}

// reply goes through the hub so writes stay on the WritePump goroutine.
func (c *Client) reply(e event) {
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	c.hub.Deliver(Delivery{Type: e.Type, Payload: b, direct: c})
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// recentSet remembers the last n keys in insertion order.
type recentSet struct {
	keys  map[uuid.UUID]struct{}
	order []uuid.UUID
	next  int
}

func newRecentSet(n int) *recentSet {
	return &recentSet{keys: make(map[uuid.UUID]struct{}, n), order: make([]uuid.UUID, n)}
}

// add reports false when key was already present.
func (s *recentSet) add(key uuid.UUID) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	if old := s.order[s.next]; old != uuid.Nil {
		delete(s.keys, old)
	}
	s.order[s.next] = key
	s.next = (s.next + 1) % len(s.order)
	s.keys[key] = struct{}{}
	return true
}
