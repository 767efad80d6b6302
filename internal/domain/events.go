package domain

// Realtime event names pushed to dashboard sessions.
const (
	EventNewOrder           = "new-order"
	EventOrderStatusUpdated = "order-status-updated"
)

// MenuImportMessage is the payload queued for the menu import worker.
type MenuImportMessage struct {
	TaskID        string `json:"task_id"`
	SpreadsheetID string `json:"spreadsheet_id"`
	RestaurantID  string `json:"restaurant_id"`
}

// OrderEvent is the lifecycle event published on the order-events queue
// and fanned out to the restaurant's dashboard sessions.
type OrderEvent struct {
	Event        string      `json:"event"`
	RestaurantID string      `json:"restaurant_id"`
	OrderID      string      `json:"order_id"`
	Status       OrderStatus `json:"status,omitempty"`
	Order        *Order      `json:"order,omitempty"`
}
