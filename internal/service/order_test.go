package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeOrderRepo struct {
	orders map[primitive.ObjectID]*domain.Order

	createErr    error
	updateCalls  int
	getByIDCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	f.getByIDCalls++
	order, ok := f.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) ListByRestaurantID(_ context.Context, restaurantID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range f.orders {
		if order.RestaurantID == restaurantID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) error {
	f.updateCalls++
	order, ok := f.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	order.Status = status
	return nil
}

type fakeBroker struct {
	published  []publishedMessage
	publishErr error
}

type publishedMessage struct {
	queueName string
	body      []byte
}

func (f *fakeBroker) Publish(_ context.Context, queueName string, message []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMessage{queueName: queueName, body: message})
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string, _ queue.MessageHandler) error {
	return nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestOrderService(repo *fakeOrderRepo, broker *fakeBroker) *OrderService {
	return NewOrderService(repo, broker, zap.NewNop().Sugar())
}

func validOrderInput() CreateOrderInput {
	return CreateOrderInput{
		RestaurantID: "rest-1",
		CustomerID:   "cust-1",
		Items: []domain.OrderItem{
			{MealID: "meal-1", Name: "Shawarma", Quantity: 2, Price: 4.5},
		},
		TotalPrice:    9.0,
		PaymentMethod: "cash",
	}
}

func TestOrderService_Create(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)

	order, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.False(t, order.ID.IsZero())
	assert.Len(t, repo.orders, 1)

	require.Len(t, broker.published, 1)
	assert.Equal(t, queue.QueueOrderEvents, broker.published[0].queueName)

	var event domain.OrderEvent
	require.NoError(t, json.Unmarshal(broker.published[0].body, &event))
	assert.Equal(t, domain.EventNewOrder, event.Event)
	assert.Equal(t, "rest-1", event.RestaurantID)
	assert.Equal(t, order.ID.Hex(), event.OrderID)
	assert.Equal(t, domain.StatusPending, event.Status)
	require.NotNil(t, event.Order)
	assert.Equal(t, 9.0, event.Order.TotalPrice)
}

func TestOrderService_CreateDefaults(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo, &fakeBroker{})

	input := validOrderInput()
	input.CustomerID = ""
	input.PaymentMethod = ""

	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "anonymous", order.CustomerID)
	assert.Equal(t, "cash", order.PaymentMethod)
}

func TestOrderService_CreateRejectsIncompleteOrders(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{
			name:   "missing restaurant id",
			mutate: func(in *CreateOrderInput) { in.RestaurantID = "" },
		},
		{
			name:   "no items",
			mutate: func(in *CreateOrderInput) { in.Items = nil },
		},
		{
			name:   "zero total price",
			mutate: func(in *CreateOrderInput) { in.TotalPrice = 0 },
		},
		{
			name:   "negative total price",
			mutate: func(in *CreateOrderInput) { in.TotalPrice = -3 },
		},
		{
			name:   "item with zero quantity",
			mutate: func(in *CreateOrderInput) { in.Items[0].Quantity = 0 },
		},
		{
			name:   "item without a name",
			mutate: func(in *CreateOrderInput) { in.Items[0].Name = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			broker := &fakeBroker{}
			svc := newTestOrderService(repo, broker)

			input := validOrderInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrIncompleteOrder)
			assert.Empty(t, repo.orders)
			assert.Empty(t, broker.published)
		})
	}
}

func TestOrderService_CreateStoreFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.createErr = errors.New("write concern failed")
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)

	_, err := svc.Create(context.Background(), validOrderInput())
	require.Error(t, err)
	assert.Empty(t, broker.published, "no event may be published when the write failed")
}

func TestOrderService_CreateSucceedsWhenBrokerIsDown(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{publishErr: errors.New("connection refused")}
	svc := newTestOrderService(repo, broker)

	order, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)
	assert.False(t, order.ID.IsZero())
}

func TestOrderService_Transition(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)

	order, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)
	broker.published = nil

	err = svc.Transition(context.Background(), order.ID, domain.StatusAccepted, "rest-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, repo.orders[order.ID].Status)

	require.Len(t, broker.published, 1)
	var event domain.OrderEvent
	require.NoError(t, json.Unmarshal(broker.published[0].body, &event))
	assert.Equal(t, domain.EventOrderStatusUpdated, event.Event)
	assert.Equal(t, domain.StatusAccepted, event.Status)
	assert.Nil(t, event.Order)
}

func TestOrderService_TransitionRejectsSkips(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)

	order, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)
	broker.published = nil

	err = svc.Transition(context.Background(), order.ID, domain.StatusPreparing, "rest-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, domain.StatusPending, repo.orders[order.ID].Status)
	assert.Zero(t, repo.updateCalls)
	assert.Empty(t, broker.published)
}

func TestOrderService_TransitionRejectsUnknownStatusBeforeStoreRead(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo, &fakeBroker{})

	err := svc.Transition(context.Background(), primitive.NewObjectID(), domain.OrderStatus("Delivered"), "rest-1")
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
	assert.Zero(t, repo.getByIDCalls)
}

func TestOrderService_TransitionRejectsForeignRestaurant(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)

	order, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)
	broker.published = nil

	err = svc.Transition(context.Background(), order.ID, domain.StatusAccepted, "rest-2")
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, domain.StatusPending, repo.orders[order.ID].Status)
	assert.Empty(t, broker.published)
}

func TestOrderService_ListByRestaurant(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo, &fakeBroker{})

	_, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)

	other := validOrderInput()
	other.RestaurantID = "rest-2"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	orders, err := svc.ListByRestaurant(context.Background(), "rest-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "rest-1", orders[0].RestaurantID)
}
