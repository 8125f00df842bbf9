package ws

import (
	"context"
	"log/slog"
	"sync/atomic"

	"skillmatch/internal/pkg/logger"

	"github.com/google/uuid"
)

// Observer receives connection and delivery counts. Optional.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	EventDelivered(eventType string)
}

// Delivery is one event fanned out to every client of the listed users and
// every subscriber of the conversation. A client receives it at most once.
type Delivery struct {
	Type           string
	Key            uuid.UUID
	UserIDs        []uuid.UUID
	ConversationID uuid.UUID
	Payload        []byte

	direct *Client
}

type subscription struct {
	client         *Client
	conversationID uuid.UUID
	on             bool
}

// Hub owns all routing state; only Run touches the maps.
type Hub struct {
	clients map[*Client]struct{}
	byUser  map[uuid.UUID]map[*Client]struct{}
	byConv  map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	deliver    chan Delivery
	done       chan struct{}

	count    atomic.Int64
	observer Observer
	logger   *slog.Logger
}

func NewHub(observer Observer, log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		byUser:     make(map[uuid.UUID]map[*Client]struct{}),
		byConv:     make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		subscribe:  make(chan subscription, 128),
		deliver:    make(chan Delivery, 1024),
		done:       make(chan struct{}),
		observer:   observer,
		logger:     logger.OrDiscard(log).With(slog.String("component", "ws")),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			h.drop(c)
			h.logger.Debug("client disconnected", slog.String("user_id", c.userID.String()), slog.Int("total_clients", len(h.clients)))

		case s := <-h.subscribe:
			h.setSubscription(s)

		case d := <-h.deliver:
			h.fanOut(d)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.clients[c] = struct{}{}
	addTo(h.byUser, c.userID, c)
	h.count.Store(int64(len(h.clients)))
	if h.observer != nil {
		h.observer.ConnectionOpened()
	}
	h.logger.Debug("client connected", slog.String("user_id", c.userID.String()), slog.Int("total_clients", len(h.clients)))
}

func (h *Hub) setSubscription(s subscription) {
	if _, ok := h.clients[s.client]; !ok {
		return
	}
	if !s.on {
		removeFrom(h.byConv, s.conversationID, s.client)
		delete(s.client.subs, s.conversationID)
		return
	}
	// One conversation at a time: switching drops the previous one.
	for id := range s.client.subs {
		removeFrom(h.byConv, id, s.client)
		delete(s.client.subs, id)
	}
	addTo(h.byConv, s.conversationID, s.client)
	s.client.subs[s.conversationID] = struct{}{}
}

func (h *Hub) fanOut(d Delivery) {
	targets := make(map[*Client]struct{})
	if d.direct != nil {
		if _, ok := h.clients[d.direct]; ok {
			targets[d.direct] = struct{}{}
		}
	}
	for _, id := range d.UserIDs {
		for c := range h.byUser[id] {
			targets[c] = struct{}{}
		}
	}
	if d.ConversationID != uuid.Nil {
		for c := range h.byConv[d.ConversationID] {
			targets[c] = struct{}{}
		}
	}

	for c := range targets {
		if d.Key != uuid.Nil && !c.seen.add(d.Key) {
			continue
		}
		select {
		case c.send <- d.Payload:
			if h.observer != nil {
				h.observer.EventDelivered(d.Type)
			}
		default:
			h.logger.Warn("client send buffer full, disconnecting", slog.String("user_id", c.userID.String()))
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	removeFrom(h.byUser, c.userID, c)
	for id := range c.subs {
		removeFrom(h.byConv, id, c)
	}
	close(c.send)
	h.count.Store(int64(len(h.clients)))
	if h.observer != nil {
		h.observer.ConnectionClosed()
	}
}

// Register reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Subscribe(c *Client, conversationID uuid.UUID) {
	select {
	case h.subscribe <- subscription{client: c, conversationID: conversationID, on: true}:
	case <-h.done:
	}
}

func (h *Hub) Unsubscribe(c *Client, conversationID uuid.UUID) {
	select {
	case h.subscribe <- subscription{client: c, conversationID: conversationID}:
	case <-h.done:
	}
}

// Deliver never blocks; a full queue drops the event.
func (h *Hub) Deliver(d Delivery) {
	if h == nil {
		return
	}
	select {
	case h.deliver <- d:
	default:
		h.logger.Warn("delivery dropped", slog.String("reason", "buffer_full"), slog.String("type", d.Type))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	return int(h.count.Load())
}

func addTo(m map[uuid.UUID]map[*Client]struct{}, id uuid.UUID, c *Client) {
	set, ok := m[id]
	if !ok {
		set = make(map[*Client]struct{})
		m[id] = set
	}
	set[c] = struct{}{}
}

func removeFrom(m map[uuid.UUID]map[*Client]struct{}, id uuid.UUID, c *Client) {
	set, ok := m[id]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(m, id)
	}
}
