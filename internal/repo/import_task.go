package repo

import (
	"context"

	"github.com/Omer-fixz/resturant/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportTaskRepository interface {
	Create(ctx context.Context, task *domain.MenuImportTask) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MenuImportTask, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ImportTaskStatus, errorMsg string) error
	Complete(ctx context.Context, id primitive.ObjectID, mealsImported int) error
	IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error
}
