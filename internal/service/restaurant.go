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

var ErrNotOwner = errors.New("restaurant is owned by another user")

type RestaurantService struct {
	restaurantRepo repo.RestaurantRepository
	uploader       media.Uploader
	logger         *zap.SugaredLogger
}

func NewRestaurantService(
	restaurantRepo repo.RestaurantRepository,
	uploader media.Uploader,
	logger *zap.SugaredLogger,
) *RestaurantService {
	return &RestaurantService{
		restaurantRepo: restaurantRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

// Register creates the restaurant record for a newly signed-up owner. The
// identity provider has already vouched for userID.
func (s *RestaurantService) Register(ctx context.Context, userID, name, email string) (*domain.Restaurant, error) {
	if userID == "" || name == "" {
		return nil, fmt.Errorf("user id and restaurant name are required")
	}

	restaurant := &domain.Restaurant{
		UserID:         userID,
		Name:           name,
		Email:          email,
		PaymentMethods: []string{"cash"},
	}

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("failed to register restaurant: %w", err)
	}

	s.logger.Infow("restaurant registered", "restaurant_id", restaurant.ID.Hex(), "user_id", userID)

	return restaurant, nil
}

func (s *RestaurantService) GetProfileByUserID(ctx context.Context, userID string) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant profile: %w", err)
	}

	return restaurant, nil
}

func (s *RestaurantService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return restaurant, nil
}

// ResolveOwnedID returns the restaurant id owned by the authenticated
// user. Mutation handlers use this to reject requests that name a foreign
// restaurant instead of trusting the request body.
func (s *RestaurantService) ResolveOwnedID(ctx context.Context, userID string) (string, error) {
	restaurant, err := s.restaurantRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve owned restaurant: %w", err)
	}

	return restaurant.ID.Hex(), nil
}

type UpdateProfileInput struct {
	Name           string
	Phone          string
	Location       string
	PaymentMethods []string
}

func (s *RestaurantService) UpdateProfile(ctx context.Context, id primitive.ObjectID, callerUserID string, input UpdateProfileInput, logo io.Reader) error {
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get restaurant: %w", err)
	}

	if callerUserID != "" && restaurant.UserID != callerUserID {
		return ErrNotOwner
	}

	if input.Name != "" {
		restaurant.Name = input.Name
	}
	restaurant.Phone = input.Phone
	restaurant.Location = input.Location

	paymentMethods := input.PaymentMethods
	if len(paymentMethods) == 0 {
		paymentMethods = []string{"cash"}
	}
	restaurant.PaymentMethods = paymentMethods

	if logo != nil {
		logoURL, err := s.uploader.Upload(ctx, logo, media.FolderLogos)
		if err != nil {
			return fmt.Errorf("failed to upload logo: %w", err)
		}
		restaurant.LogoURL = logoURL
	}

	if err := s.restaurantRepo.Update(ctx, restaurant); err != nil {
		return fmt.Errorf("failed to update restaurant profile: %w", err)
	}

	return nil
}

func (s *RestaurantService) SetOnline(ctx context.Context, id primitive.ObjectID, online bool) error {
	if err := s.restaurantRepo.SetOnline(ctx, id, online); err != nil {
		return fmt.Errorf("failed to set restaurant online flag: %w", err)
	}

	return nil
}

// SetOnlineByID is the string-id variant the realtime gateway uses when a
// dashboard connects or drops.
func (s *RestaurantService) SetOnlineByID(ctx context.Context, restaurantID string, online bool) error {
	id, err := primitive.ObjectIDFromHex(restaurantID)
	if err != nil {
		return fmt.Errorf("invalid restaurant id: %w", err)
	}

	return s.SetOnline(ctx, id, online)
}
