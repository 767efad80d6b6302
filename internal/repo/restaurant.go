package repo

import (
	"context"

	"github.com/Omer-fixz/resturant/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Restaurant, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Restaurant, error)
	Update(ctx context.Context, restaurant *domain.Restaurant) error
	SetOnline(ctx context.Context, id primitive.ObjectID, online bool) error
}
