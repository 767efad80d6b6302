package main

import (
	"errors"
	"net/http"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/service"
	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItemRequest struct {
	MealID   string  `json:"mealId"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	RestaurantID  string             `json:"restaurantId" validate:"required"`
	CustomerID    string             `json:"customerId"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalPrice    float64            `json:"totalPrice" validate:"required,gt=0"`
	PaymentMethod string             `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status       string `json:"status" validate:"required"`
	RestaurantID string `json:"restaurantId"`
}

// createOrderHandler godoc
//
//	@Summary		Create order
//	@Description	Places a customer order; the restaurant's dashboard is notified in realtime
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateOrderRequest	true	"Order"
//	@Param			Idempotency-Key	header	string	false	"Optional retry-safety key"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/orders [post]
func (app *application) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// a retried request with the same key returns the original order
	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" {
		orderID, found, err := app.idempotency.Lookup(r.Context(), req.RestaurantID, idemKey)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if found {
			app.jsonRespone(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"orderId": orderID,
			})
			return
		}
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			MealID:   item.MealID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	order, err := app.orderService.Create(r.Context(), service.CreateOrderInput{
		RestaurantID:  req.RestaurantID,
		CustomerID:    req.CustomerID,
		Items:         items,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteOrder) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if idemKey != "" {
		if err := app.idempotency.Remember(r.Context(), req.RestaurantID, idemKey, order.ID.Hex()); err != nil {
			app.logger.Warnw("failed to store idempotency key", "order_id", order.ID.Hex(), "error", err)
		}
	}

	response := map[string]interface{}{
		"success": true,
		"orderId": order.ID.Hex(),
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateOrderStatusHandler godoc
//
//	@Summary		Update order status
//	@Description	Advances the order to the next status in the pipeline
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order ID"
//	@Param			request	body		UpdateOrderStatusRequest	true	"Target status"
//	@Success		200		{object}	map[string]bool
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/orders/{id}/status [put]
func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	orderIDStr := chi.URLParam(r, "id")
	orderID, err := primitive.ObjectIDFromHex(orderIDStr)
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	var req UpdateOrderStatusRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// the caller's owned restaurant is resolved server-side; the restaurant
	// id in the body is not trusted
	callerRestaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil {
		app.forbiddenResponse(w, r, err)
		return
	}

	err = app.orderService.Transition(r.Context(), orderID, domain.OrderStatus(req.Status), callerRestaurantID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownStatus), errors.Is(err, domain.ErrInvalidTransition):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, service.ErrForbidden):
			app.forbiddenResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOrdersHandler godoc
//
//	@Summary		List restaurant orders
//	@Description	Orders for the restaurant, newest first. Dashboards poll this to reconcile missed realtime events.
//	@Tags			orders
//	@Produce		json
//	@Param			restaurantId	path		string	true	"Restaurant ID"
//	@Success		200				{array}		domain.Order
//	@Failure		403				{object}	map[string]string
//	@Failure		500				{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/orders/{restaurantId} [get]
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")
	if restaurantID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	callerRestaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil || callerRestaurantID != restaurantID {
		app.forbiddenResponse(w, r, errors.New("restaurant does not belong to caller"))
		return
	}

	orders, err := app.orderService.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, orders); err != nil {
		app.internalServerError(w, r, err)
	}
}
