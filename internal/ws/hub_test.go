package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/domain/match"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func drain(c *Client) []event {
	var out []event
	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				return out
			}
			var e event
			if err := json.Unmarshal(b, &e); err == nil {
				out = append(out, e)
			}
		default:
			return out
		}
	}
}

func TestHub_MessageReachesParticipantsOnce(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, nil)
	sender, receiver, outsider := uuid.New(), uuid.New(), uuid.New()
	convID := uuid.New()

	senderTab := NewClient(h, nil, sender, nil)
	receiverPhone := NewClient(h, nil, receiver, nil)
	receiverLaptop := NewClient(h, nil, receiver, nil)
	stranger := NewClient(h, nil, outsider, nil)
	for _, c := range []*Client{senderTab, receiverPhone, receiverLaptop, stranger} {
		h.add(c)
	}
	h.setSubscription(subscription{client: receiverPhone, conversationID: convID, on: true})

	n := NewNotifier(h)
	msg := conversation.Message{ID: uuid.New(), ConversationID: convID, SenderID: sender, ReceiverID: receiver, Content: "hi"}
	n.MessageCreated(context.Background(), msg)
	n.MessageCreated(context.Background(), msg)
	for len(h.deliver) > 0 {
		h.fanOut(<-h.deliver)
	}

	for _, c := range []*Client{senderTab, receiverPhone, receiverLaptop} {
		got := drain(c)
		require.Len(t, got, 1)
		require.Equal(t, EventMessageCreated, got[0].Type)
		require.Equal(t, convID.String(), got[0].ConversationID)
	}
	require.Empty(t, drain(stranger))
}

func TestHub_MatchConfirmedGoesToBothSides(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, nil)
	m := match.Match{ID: uuid.New(), JobID: uuid.New(), WorkerID: uuid.New(), EmployerID: uuid.New()}
	worker := NewClient(h, nil, m.WorkerID, nil)
	employer := NewClient(h, nil, m.EmployerID, nil)
	h.add(worker)
	h.add(employer)

	NewNotifier(h).MatchConfirmed(context.Background(), m)
	h.fanOut(<-h.deliver)

	for _, c := range []*Client{worker, employer} {
		got := drain(c)
		require.Len(t, got, 1)
		require.Equal(t, EventMatchConfirmed, got[0].Type)
	}
}

func TestHub_DropCleansIndexes(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, nil)
	user, convID := uuid.New(), uuid.New()
	c := NewClient(h, nil, user, nil)
	h.add(c)
	h.setSubscription(subscription{client: c, conversationID: convID, on: true})

	h.drop(c)

	require.Zero(t, h.ClientCount())
	require.Empty(t, h.byUser)
	require.Empty(t, h.byConv)
	_, open := <-c.send
	require.False(t, open)

	h.drop(c)
	h.setSubscription(subscription{client: c, conversationID: convID, on: true})
	require.Empty(t, h.byConv)
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, nil)
	user := uuid.New()
	c := NewClient(h, nil, user, nil)
	h.add(c)

	for i := 0; i < sendBuffer+1; i++ {
		h.fanOut(Delivery{Type: "x", UserIDs: []uuid.UUID{user}, Payload: []byte(`{}`)})
	}
	require.Zero(t, h.ClientCount())
}

func TestHub_RunStopsAndClosesClients(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	user := uuid.New()
	c := NewClient(h, nil, user, nil)
	require.True(t, h.Register(c))
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Deliver(Delivery{Type: "x", UserIDs: []uuid.UUID{user}, Payload: []byte(`{"type":"x"}`)})
	select {
	case b := <-c.send:
		require.JSONEq(t, `{"type":"x"}`, string(b))
	case <-time.After(time.Second):
		t.Fatal("delivery not received")
	}

	cancel()
	<-done
	_, open := <-c.send
	require.False(t, open)
	require.False(t, h.Register(NewClient(h, nil, user, nil)))
	h.Unregister(c)
}

func TestHub_SubscriptionSwitchesConversation(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, nil)
	c := NewClient(h, nil, uuid.New(), nil)
	h.add(c)
	first, second := uuid.New(), uuid.New()

	h.setSubscription(subscription{client: c, conversationID: first, on: true})
	h.setSubscription(subscription{client: c, conversationID: second, on: true})

	require.NotContains(t, h.byConv, first)
	require.Contains(t, h.byConv, second)
	require.Len(t, c.subs, 1)

	h.setSubscription(subscription{client: c, conversationID: second})
	require.Empty(t, h.byConv)
}

func TestRecentSet_Evicts(t *testing.T) {
	t.Parallel()

	s := newRecentSet(2)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	require.True(t, s.add(a))
	require.False(t, s.add(a))
	require.True(t, s.add(b))
	require.True(t, s.add(c))
	require.True(t, s.add(a), "oldest key evicted")
}
