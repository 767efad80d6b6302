package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/queue"
	"github.com/Omer-fixz/resturant/internal/realtime"
	"go.uber.org/zap"
)

// OrderEventsWorker drains the order-events queue and fans each lifecycle
// event out to the restaurant's connected dashboard sessions. Sessions not
// connected at delivery time simply miss the event; the dashboard's polling
// fallback reconciles.
type OrderEventsWorker struct {
	hub    *realtime.Hub
	broker queue.Broker
	logger *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewOrderEventsWorker(
	hub *realtime.Hub,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderEventsWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &OrderEventsWorker{
		hub:    hub,
		broker: broker,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (w *OrderEventsWorker) Start() error {
	w.logger.Info("starting order events worker")

	return w.broker.Subscribe(w.ctx, queue.QueueOrderEvents, w.handleMessage)
}

func (w *OrderEventsWorker) Stop() {
	w.logger.Info("stopping order events worker")
	w.cancel()
}

func (w *OrderEventsWorker) handleMessage(ctx context.Context, message []byte) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(message, &event); err != nil {
		w.logger.Errorw("failed to unmarshal order event", "error", err)
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	if event.RestaurantID == "" {
		w.logger.Errorw("order event without restaurant id", "order_id", event.OrderID)
		return fmt.Errorf("order event without restaurant id")
	}

	switch event.Event {
	case domain.EventNewOrder:
		w.hub.Publish(event.RestaurantID, event.Event, event.Order)
	case domain.EventOrderStatusUpdated:
		w.hub.Publish(event.RestaurantID, event.Event, map[string]interface{}{
			"orderId": event.OrderID,
			"status":  event.Status,
		})
	default:
		w.logger.Warnw("unknown order event", "event", event.Event, "order_id", event.OrderID)
		return nil
	}

	w.logger.Infow("order event delivered",
		"event", event.Event,
		"order_id", event.OrderID,
		"restaurant_id", event.RestaurantID,
		"sessions", w.hub.GroupSize(event.RestaurantID),
	)

	return nil
}
