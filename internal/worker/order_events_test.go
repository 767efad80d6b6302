package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/queue"
	"github.com/Omer-fixz/resturant/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopBroker struct{}

func (nopBroker) Publish(context.Context, string, []byte) error { return nil }

func (nopBroker) Subscribe(context.Context, string, queue.MessageHandler) error {
	return nil
}

func (nopBroker) Close() error { return nil }

func newTestWorker() (*OrderEventsWorker, *realtime.Hub) {
	logger := zap.NewNop().Sugar()
	hub := realtime.NewHub(logger)
	return NewOrderEventsWorker(hub, nopBroker{}, logger), hub
}

func receive(t *testing.T, s *realtime.Session) realtime.Envelope {
	t.Helper()

	select {
	case raw, ok := <-s.Receive():
		require.True(t, ok, "send channel closed")
		var env realtime.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("no message delivered")
		return realtime.Envelope{}
	}
}

func TestHandleMessage_NewOrder(t *testing.T) {
	w, hub := newTestWorker()

	session := realtime.NewSession(4)
	hub.Join(session, "rest-1")

	message, err := json.Marshal(domain.OrderEvent{
		Event:        domain.EventNewOrder,
		RestaurantID: "rest-1",
		OrderID:      "order-1",
		Status:       domain.StatusPending,
		Order:        &domain.Order{RestaurantID: "rest-1", TotalPrice: 9.0},
	})
	require.NoError(t, err)

	require.NoError(t, w.handleMessage(context.Background(), message))

	env := receive(t, session)
	assert.Equal(t, domain.EventNewOrder, env.Event)

	order, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rest-1", order["restaurantId"])
}

func TestHandleMessage_StatusUpdated(t *testing.T) {
	w, hub := newTestWorker()

	session := realtime.NewSession(4)
	hub.Join(session, "rest-1")

	message, err := json.Marshal(domain.OrderEvent{
		Event:        domain.EventOrderStatusUpdated,
		RestaurantID: "rest-1",
		OrderID:      "order-1",
		Status:       domain.StatusAccepted,
	})
	require.NoError(t, err)

	require.NoError(t, w.handleMessage(context.Background(), message))

	env := receive(t, session)
	assert.Equal(t, domain.EventOrderStatusUpdated, env.Event)

	payload, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "order-1", payload["orderId"])
	assert.Equal(t, string(domain.StatusAccepted), payload["status"])
}

func TestHandleMessage_RejectsMalformedPayloads(t *testing.T) {
	w, _ := newTestWorker()

	err := w.handleMessage(context.Background(), []byte("not json"))
	assert.Error(t, err)

	missingRestaurant, _ := json.Marshal(domain.OrderEvent{Event: domain.EventNewOrder, OrderID: "order-1"})
	err = w.handleMessage(context.Background(), missingRestaurant)
	assert.Error(t, err)
}

func TestHandleMessage_UnknownEventIsDropped(t *testing.T) {
	w, hub := newTestWorker()

	session := realtime.NewSession(4)
	hub.Join(session, "rest-1")

	message, _ := json.Marshal(domain.OrderEvent{Event: "order-refunded", RestaurantID: "rest-1"})

	// unknown events are acked, not requeued
	require.NoError(t, w.handleMessage(context.Background(), message))

	select {
	case <-session.Receive():
		t.Fatal("unknown event must not reach dashboard sessions")
	default:
	}
}
