package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusAccepted  OrderStatus = "Accepted"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIncompleteOrder   = errors.New("incomplete order")
)

// Next returns the successor status along the pipeline
// Pending -> Accepted -> Preparing -> Ready. Ready is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusAccepted, true
	case StatusAccepted:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	default:
		return "", false
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// CanTransitionTo reports whether target is the single legal successor of s.
// Skipping states or moving backwards is rejected.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

type OrderItem struct {
	MealID   string `bson:"meal_id,omitempty" json:"mealId,omitempty"`
	Name     string `bson:"name" json:"name"`
	Quantity int    `bson:"quantity" json:"quantity"`
	// Price is the unit price snapshot taken at order time. Later meal
	// price edits never touch it.
	Price float64 `bson:"price" json:"price"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID  string             `bson:"restaurant_id" json:"restaurantId"`
	CustomerID    string             `bson:"customer_id" json:"customerId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	TotalPrice    float64            `bson:"total_price" json:"totalPrice"`
	PaymentMethod string             `bson:"payment_method" json:"paymentMethod"`
	Status        OrderStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}
