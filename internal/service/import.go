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

// ErrImportNotConfigured is returned when no menu parser is configured,
// so import requests can be rejected instead of queued to fail.
var ErrImportNotConfigured = errors.New("menu import is not configured")

// MenuParser turns an external spreadsheet into meals for a restaurant.
type MenuParser interface {
	ParseMeals(ctx context.Context, spreadsheetID, restaurantID string) ([]domain.Meal, error)
}

// TransactionRunner executes fn atomically against the store.
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ImportService struct {
	importTaskRepo repo.ImportTaskRepository
	mealRepo       repo.MealRepository
	parser         MenuParser
	broker         queue.Broker
	tx             TransactionRunner
	logger         *zap.SugaredLogger
}

func NewImportService(
	importTaskRepo repo.ImportTaskRepository,
	mealRepo repo.MealRepository,
	parser MenuParser,
	broker queue.Broker,
	tx TransactionRunner,
	logger *zap.SugaredLogger,
) *ImportService {
	return &ImportService{
		importTaskRepo: importTaskRepo,
		mealRepo:       mealRepo,
		parser:         parser,
		broker:         broker,
		tx:             tx,
		logger:         logger,
	}
}

func (s *ImportService) CreateImportTask(ctx context.Context, spreadsheetID, restaurantID string) (primitive.ObjectID, error) {
	if s.parser == nil {
		return primitive.NilObjectID, ErrImportNotConfigured
	}

	task := &domain.MenuImportTask{
		Status:        domain.ImportQueued,
		SpreadsheetID: spreadsheetID,
		RestaurantID:  restaurantID,
		RetryCount:    0,
	}

	if err := s.importTaskRepo.Create(ctx, task); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create import task: %w", err)
	}

	message := domain.MenuImportMessage{
		TaskID:        task.ID.Hex(),
		SpreadsheetID: spreadsheetID,
		RestaurantID:  restaurantID,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueMenuImport, messageBytes); err != nil {
		// update task status to failed
		_ = s.importTaskRepo.UpdateStatus(ctx, task.ID, domain.ImportFailed, err.Error())
		return primitive.NilObjectID, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("menu import task created", "task_id", task.ID.Hex(), "spreadsheet_id", spreadsheetID)

	return task.ID, nil
}

func (s *ImportService) GetTaskStatus(ctx context.Context, taskID primitive.ObjectID) (*domain.MenuImportTask, error) {
	task, err := s.importTaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import task: %w", err)
	}

	return task, nil
}

func (s *ImportService) ProcessImportTask(ctx context.Context, taskID primitive.ObjectID) error {
	// tasks queued before the parser was deconfigured land here too
	if s.parser == nil {
		s.logger.Errorw("menu import task received without a configured parser", "task_id", taskID.Hex())
		_ = s.importTaskRepo.UpdateStatus(ctx, taskID, domain.ImportFailed, ErrImportNotConfigured.Error())
		return nil
	}

	task, err := s.importTaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.importTaskRepo.UpdateStatus(ctx, taskID, domain.ImportProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing menu import task", "task_id", taskID.Hex())

	meals, err := s.parser.ParseMeals(ctx, task.SpreadsheetID, task.RestaurantID)
	if err != nil {
		s.logger.Errorw("failed to parse menu sheet", "task_id", taskID.Hex(), "error", err)
		_ = s.importTaskRepo.UpdateStatus(ctx, taskID, domain.ImportFailed, err.Error())
		return fmt.Errorf("failed to parse menu sheet: %w", err)
	}

	// save meals and finish the task atomically
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range meals {
			if err := s.mealRepo.Create(txCtx, &meals[i]); err != nil {
				return fmt.Errorf("failed to save imported meal: %w", err)
			}
		}

		return s.importTaskRepo.Complete(txCtx, taskID, len(meals))
	})
	if err != nil {
		s.logger.Errorw("failed to import meals", "task_id", taskID.Hex(), "error", err)
		_ = s.importTaskRepo.UpdateStatus(ctx, taskID, domain.ImportFailed, err.Error())
		return fmt.Errorf("failed to import meals: %w", err)
	}

	s.logger.Infow("menu import task completed", "task_id", taskID.Hex(), "meals_imported", len(meals))

	return nil
}
