package mongo

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Omer-fixz/resturant/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MealRepository struct {
	collection *mongo.Collection
}

func NewMealRepository(db *mongo.Database) *MealRepository {
	return &MealRepository{
		collection: db.Collection("meals"),
	}
}

func (r *MealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if meal.ID.IsZero() {
		meal.ID = primitive.NewObjectID()
	}
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	return nil
}

func (r *MealRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var meal domain.Meal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("meal not found")
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return &meal, nil
}

func (r *MealRepository) ListByRestaurantID(ctx context.Context, restaurantID string) ([]domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID})
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer cursor.Close(ctx)

	meals := []domain.Meal{}
	if err := cursor.All(ctx, &meals); err != nil {
		return nil, fmt.Errorf("failed to decode meals: %w", err)
	}

	return meals, nil
}

func (r *MealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	meal.UpdatedAt = time.Now()

	filter := bson.M{"_id": meal.ID}
	update := bson.M{
		"$set": meal,
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("meal not found")
	}

	return nil
}

func (r *MealRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"available":  available,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update meal availability: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("meal not found")
	}

	return nil
}

// BulkAdjustPrices multiplies every meal price of the restaurant by
// (1 + percentage/100), rounded to two decimals. Returns the number of
// meals updated. Orders keep their price snapshots untouched.
func (r *MealRepository) BulkAdjustPrices(ctx context.Context, restaurantID string, percentage float64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID})
	if err != nil {
		return 0, fmt.Errorf("failed to list meals: %w", err)
	}
	defer cursor.Close(ctx)

	meals := []domain.Meal{}
	if err := cursor.All(ctx, &meals); err != nil {
		return 0, fmt.Errorf("failed to decode meals: %w", err)
	}

	var updated int64
	for _, meal := range meals {
		newPrice := math.Round(meal.Price*(1+percentage/100)*100) / 100

		result, err := r.collection.UpdateOne(ctx, bson.M{"_id": meal.ID}, bson.M{
			"$set": bson.M{
				"price":      newPrice,
				"updated_at": time.Now(),
			},
		})
		if err != nil {
			return updated, fmt.Errorf("failed to update meal price: %w", err)
		}
		updated += result.ModifiedCount
	}

	return updated, nil
}

func (r *MealRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("meal not found")
	}

	return nil
}
