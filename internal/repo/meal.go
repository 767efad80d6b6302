package repo

import (
	"context"

	"github.com/Omer-fixz/resturant/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error)
	ListByRestaurantID(ctx context.Context, restaurantID string) ([]domain.Meal, error)
	Update(ctx context.Context, meal *domain.Meal) error
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
	BulkAdjustPrices(ctx context.Context, restaurantID string, percentage float64) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
