package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/queue"
	"github.com/Omer-fixz/resturant/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrForbidden is returned when the caller's restaurant does not own the
// order it is trying to mutate.
var ErrForbidden = errors.New("order belongs to another restaurant")

type OrderService struct {
	orderRepo repo.OrderRepository
	broker    queue.Broker
	logger    *zap.SugaredLogger
}

func NewOrderService(
	orderRepo repo.OrderRepository,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		broker:    broker,
		logger:    logger,
	}
}

type CreateOrderInput struct {
	RestaurantID  string
	CustomerID    string
	Items         []domain.OrderItem
	TotalPrice    float64
	PaymentMethod string
}

// Create validates the order, persists it with status Pending, and then
// publishes a new-order event for the restaurant's dashboard sessions. The
// store write is awaited before the publish.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.RestaurantID == "" || len(input.Items) == 0 || input.TotalPrice <= 0 {
		return nil, domain.ErrIncompleteOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 || item.Name == "" {
			return nil, domain.ErrIncompleteOrder
		}
	}

	customerID := input.CustomerID
	if customerID == "" {
		customerID = "anonymous"
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	order := &domain.Order{
		RestaurantID:  input.RestaurantID,
		CustomerID:    customerID,
		Items:         input.Items,
		TotalPrice:    input.TotalPrice,
		PaymentMethod: paymentMethod,
		Status:        domain.StatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvent(ctx, domain.OrderEvent{
		Event:        domain.EventNewOrder,
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID.Hex(),
		Status:       order.Status,
		Order:        order,
	})

	s.logger.Infow("order created",
		"order_id", order.ID.Hex(),
		"restaurant_id", order.RestaurantID,
		"total_price", order.TotalPrice,
	)

	return order, nil
}

// Transition moves the order to targetStatus. Only the single legal
// successor of the current status is accepted; anything else is rejected
// without touching the store. callerRestaurantID, when non-empty, must
// match the order's restaurant.
func (s *OrderService) Transition(ctx context.Context, orderID primitive.ObjectID, targetStatus domain.OrderStatus, callerRestaurantID string) error {
	if !targetStatus.Valid() {
		return domain.ErrUnknownStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	if callerRestaurantID != "" && order.RestaurantID != callerRestaurantID {
		return ErrForbidden
	}

	if !order.Status.CanTransitionTo(targetStatus) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, targetStatus)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, targetStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.publishEvent(ctx, domain.OrderEvent{
		Event:        domain.EventOrderStatusUpdated,
		RestaurantID: order.RestaurantID,
		OrderID:      orderID.Hex(),
		Status:       targetStatus,
	})

	s.logger.Infow("order status updated",
		"order_id", orderID.Hex(),
		"restaurant_id", order.RestaurantID,
		"status", targetStatus,
	)

	return nil
}

func (s *OrderService) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// publishEvent queues the lifecycle event for fan-out to dashboard
// sessions. Delivery is best-effort: the order mutation already succeeded,
// so a broker failure is logged and the dashboard's polling fallback
// covers the loss.
func (s *OrderService) publishEvent(ctx context.Context, event domain.OrderEvent) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorw("failed to marshal order event", "order_id", event.OrderID, "error", err)
		return
	}

	if err := s.broker.Publish(ctx, queue.QueueOrderEvents, eventBytes); err != nil {
		s.logger.Errorw("failed to publish order event",
			"order_id", event.OrderID,
			"event", event.Event,
			"error", err,
		)
	}
}
