package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/media"
	"github.com/Omer-fixz/resturant/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrInvalidMeal = errors.New("meal name and a non-negative price are required")

type MealService struct {
	mealRepo repo.MealRepository
	uploader media.Uploader
	logger   *zap.SugaredLogger
}

func NewMealService(
	mealRepo repo.MealRepository,
	uploader media.Uploader,
	logger *zap.SugaredLogger,
) *MealService {
	return &MealService{
		mealRepo: mealRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *MealService) CreateMeal(ctx context.Context, meal *domain.Meal, image io.Reader) error {
	if meal.Name == "" || meal.Price < 0 || meal.RestaurantID == "" {
		return ErrInvalidMeal
	}

	if image != nil {
		imageURL, err := s.uploader.Upload(ctx, image, media.FolderMeals)
		if err != nil {
			return fmt.Errorf("failed to upload meal image: %w", err)
		}
		meal.ImageURL = imageURL
	}

	meal.Available = true

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	s.logger.Infow("meal created", "meal_id", meal.ID.Hex(), "restaurant_id", meal.RestaurantID)

	return nil
}

func (s *MealService) GetMenu(ctx context.Context, restaurantID string) ([]domain.Meal, error) {
	meals, err := s.mealRepo.ListByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	return meals, nil
}

type UpdateMealInput struct {
	Name        string
	Price       float64
	Description string
}

func (s *MealService) UpdateMeal(ctx context.Context, mealID primitive.ObjectID, callerRestaurantID string, input UpdateMealInput, image io.Reader) error {
	if input.Name == "" || input.Price < 0 {
		return ErrInvalidMeal
	}

	meal, err := s.ownedMeal(ctx, mealID, callerRestaurantID)
	if err != nil {
		return err
	}

	meal.Name = input.Name
	meal.Price = input.Price
	meal.Description = input.Description

	if image != nil {
		imageURL, err := s.uploader.Upload(ctx, image, media.FolderMeals)
		if err != nil {
			return fmt.Errorf("failed to upload meal image: %w", err)
		}
		meal.ImageURL = imageURL
	}

	if err := s.mealRepo.Update(ctx, meal); err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	return nil
}

func (s *MealService) DeleteMeal(ctx context.Context, mealID primitive.ObjectID, callerRestaurantID string) error {
	if _, err := s.ownedMeal(ctx, mealID, callerRestaurantID); err != nil {
		return err
	}

	if err := s.mealRepo.Delete(ctx, mealID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	return nil
}

func (s *MealService) ToggleAvailability(ctx context.Context, mealID primitive.ObjectID, callerRestaurantID string, available bool) error {
	if _, err := s.ownedMeal(ctx, mealID, callerRestaurantID); err != nil {
		return err
	}

	if err := s.mealRepo.SetAvailability(ctx, mealID, available); err != nil {
		return fmt.Errorf("failed to toggle meal availability: %w", err)
	}

	return nil
}

// BulkPriceUpdate adjusts every meal price of the restaurant by the given
// percentage. Existing orders keep their snapshot prices.
func (s *MealService) BulkPriceUpdate(ctx context.Context, restaurantID string, percentage float64) (int64, error) {
	updated, err := s.mealRepo.BulkAdjustPrices(ctx, restaurantID, percentage)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update prices: %w", err)
	}

	s.logger.Infow("bulk price update applied",
		"restaurant_id", restaurantID,
		"percentage", percentage,
		"updated", updated,
	)

	return updated, nil
}

// ownedMeal loads the meal and verifies it belongs to the caller's
// restaurant. An empty callerRestaurantID skips the check (internal use).
func (s *MealService) ownedMeal(ctx context.Context, mealID primitive.ObjectID, callerRestaurantID string) (*domain.Meal, error) {
	meal, err := s.mealRepo.GetByID(ctx, mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	if callerRestaurantID != "" && meal.RestaurantID != callerRestaurantID {
		return nil, ErrForbidden
	}

	return meal, nil
}
