package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeImportTaskRepo struct {
	tasks map[primitive.ObjectID]*domain.MenuImportTask
}

func newFakeImportTaskRepo() *fakeImportTaskRepo {
	return &fakeImportTaskRepo{tasks: make(map[primitive.ObjectID]*domain.MenuImportTask)}
}

func (f *fakeImportTaskRepo) Create(_ context.Context, task *domain.MenuImportTask) error {
	task.ID = primitive.NewObjectID()
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeImportTaskRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MenuImportTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, errors.New("import task not found")
	}
	copied := *task
	return &copied, nil
}

func (f *fakeImportTaskRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.ImportTaskStatus, errorMsg string) error {
	task, ok := f.tasks[id]
	if !ok {
		return errors.New("import task not found")
	}
	task.Status = status
	task.ErrorMessage = errorMsg
	return nil
}

func (f *fakeImportTaskRepo) Complete(_ context.Context, id primitive.ObjectID, mealsImported int) error {
	task, ok := f.tasks[id]
	if !ok {
		return errors.New("import task not found")
	}
	task.Status = domain.ImportCompleted
	task.MealsImported = mealsImported
	return nil
}

func (f *fakeImportTaskRepo) IncrementRetryCount(_ context.Context, id primitive.ObjectID) error {
	task, ok := f.tasks[id]
	if !ok {
		return errors.New("import task not found")
	}
	task.RetryCount++
	return nil
}

type fakeMealRepo struct {
	meals     []domain.Meal
	createErr error
}

func (f *fakeMealRepo) Create(_ context.Context, meal *domain.Meal) error {
	if f.createErr != nil {
		return f.createErr
	}
	meal.ID = primitive.NewObjectID()
	f.meals = append(f.meals, *meal)
	return nil
}

func (f *fakeMealRepo) GetByID(_ context.Context, _ primitive.ObjectID) (*domain.Meal, error) {
	return nil, errors.New("meal not found")
}

func (f *fakeMealRepo) ListByRestaurantID(_ context.Context, _ string) ([]domain.Meal, error) {
	return f.meals, nil
}

func (f *fakeMealRepo) Update(_ context.Context, _ *domain.Meal) error { return nil }

func (f *fakeMealRepo) SetAvailability(_ context.Context, _ primitive.ObjectID, _ bool) error {
	return nil
}

func (f *fakeMealRepo) BulkAdjustPrices(_ context.Context, _ string, _ float64) (int64, error) {
	return 0, nil
}

func (f *fakeMealRepo) Delete(_ context.Context, _ primitive.ObjectID) error { return nil }

type fakeParser struct {
	meals []domain.Meal
	err   error
}

func (f *fakeParser) ParseMeals(_ context.Context, _, restaurantID string) ([]domain.Meal, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Meal, len(f.meals))
	copy(out, f.meals)
	for i := range out {
		out[i].RestaurantID = restaurantID
	}
	return out, nil
}

// fakeTxRunner runs fn directly and records whether a transaction was used.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func queuedTask(t *testing.T, taskRepo *fakeImportTaskRepo, restaurantID string) *domain.MenuImportTask {
	t.Helper()

	task := &domain.MenuImportTask{
		Status:        domain.ImportQueued,
		SpreadsheetID: "sheet-1",
		RestaurantID:  restaurantID,
	}
	require.NoError(t, taskRepo.Create(context.Background(), task))
	return task
}

func TestImportService_CreateImportTask(t *testing.T) {
	taskRepo := newFakeImportTaskRepo()
	broker := &fakeBroker{}
	svc := NewImportService(taskRepo, &fakeMealRepo{}, &fakeParser{}, broker, &fakeTxRunner{}, zap.NewNop().Sugar())

	taskID, err := svc.CreateImportTask(context.Background(), "sheet-1", "rest-1")
	require.NoError(t, err)
	assert.False(t, taskID.IsZero())

	assert.Equal(t, domain.ImportQueued, taskRepo.tasks[taskID].Status)
	assert.Len(t, broker.published, 1)
}

func TestImportService_CreateImportTaskWithoutParser(t *testing.T) {
	taskRepo := newFakeImportTaskRepo()
	broker := &fakeBroker{}
	svc := NewImportService(taskRepo, &fakeMealRepo{}, nil, broker, &fakeTxRunner{}, zap.NewNop().Sugar())

	_, err := svc.CreateImportTask(context.Background(), "sheet-1", "rest-1")
	assert.ErrorIs(t, err, ErrImportNotConfigured)

	assert.Empty(t, taskRepo.tasks, "no task may be queued when no parser is configured")
	assert.Empty(t, broker.published)
}

func TestImportService_ProcessImportTask(t *testing.T) {
	taskRepo := newFakeImportTaskRepo()
	mealRepo := &fakeMealRepo{}
	parser := &fakeParser{meals: []domain.Meal{
		{Name: "Hummus", Price: 3.5, Available: true},
		{Name: "Falafel", Price: 4.0, Available: true},
	}}
	tx := &fakeTxRunner{}
	svc := NewImportService(taskRepo, mealRepo, parser, &fakeBroker{}, tx, zap.NewNop().Sugar())

	task := queuedTask(t, taskRepo, "rest-1")

	require.NoError(t, svc.ProcessImportTask(context.Background(), task.ID))

	assert.Equal(t, domain.ImportCompleted, taskRepo.tasks[task.ID].Status)
	assert.Equal(t, 2, taskRepo.tasks[task.ID].MealsImported)
	require.Len(t, mealRepo.meals, 2)
	assert.Equal(t, "rest-1", mealRepo.meals[0].RestaurantID)
	assert.Equal(t, 1, tx.calls, "meal writes and task completion must run in one transaction")
}

func TestImportService_ProcessImportTaskWithoutParser(t *testing.T) {
	taskRepo := newFakeImportTaskRepo()
	svc := NewImportService(taskRepo, &fakeMealRepo{}, nil, &fakeBroker{}, &fakeTxRunner{}, zap.NewNop().Sugar())

	task := queuedTask(t, taskRepo, "rest-1")

	// must not panic, and must not requeue an unservable message
	require.NoError(t, svc.ProcessImportTask(context.Background(), task.ID))

	assert.Equal(t, domain.ImportFailed, taskRepo.tasks[task.ID].Status)
	assert.Equal(t, ErrImportNotConfigured.Error(), taskRepo.tasks[task.ID].ErrorMessage)
}

func TestImportService_ProcessImportTaskParseFailure(t *testing.T) {
	taskRepo := newFakeImportTaskRepo()
	mealRepo := &fakeMealRepo{}
	parser := &fakeParser{err: errors.New("spreadsheet not found")}
	svc := NewImportService(taskRepo, mealRepo, parser, &fakeBroker{}, &fakeTxRunner{}, zap.NewNop().Sugar())

	task := queuedTask(t, taskRepo, "rest-1")

	err := svc.ProcessImportTask(context.Background(), task.ID)
	require.Error(t, err)

	assert.Equal(t, domain.ImportFailed, taskRepo.tasks[task.ID].Status)
	assert.Empty(t, mealRepo.meals)
}

func TestImportService_ProcessImportTaskSaveFailure(t *testing.T) {
	taskRepo := newFakeImportTaskRepo()
	mealRepo := &fakeMealRepo{createErr: errors.New("write failed")}
	parser := &fakeParser{meals: []domain.Meal{{Name: "Hummus", Price: 3.5}}}
	svc := NewImportService(taskRepo, mealRepo, parser, &fakeBroker{}, &fakeTxRunner{}, zap.NewNop().Sugar())

	task := queuedTask(t, taskRepo, "rest-1")

	err := svc.ProcessImportTask(context.Background(), task.ID)
	require.Error(t, err)

	assert.Equal(t, domain.ImportFailed, taskRepo.tasks[task.ID].Status)
}
