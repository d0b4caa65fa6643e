package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
	"lolitems/internal/repositories"
	"lolitems/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemRepository is a mock implementation of repositories.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}

func (m *MockItemRepository) Get(ctx context.Context, name string) (*models.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, name string, item *models.Item) (*models.Item, error) {
	args := m.Called(ctx, name, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPublisher is a mock implementation of services.ItemEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishItemEvent(event models.ItemEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func eventFor(eventType models.ItemEventType, itemName string) interface{} {
	return mock.MatchedBy(func(e models.ItemEvent) bool {
		return e.Type == eventType && e.ItemName == itemName && e.ID != "" && !e.OccurredAt.IsZero()
	})
}

func sampleItem() *models.Item {
	return &models.Item{
		Name:      "Thornmail",
		Price:     2700,
		SellPrice: 1890,
		Stats:     map[models.Stat]int{models.StatArmor: 70, models.StatHealth: 350},
	}
}

func TestItemService_CreateItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	mockPub := new(MockPublisher)
	service := services.NewItemService(mockRepo, mockPub)
	item := sampleItem()

	mockRepo.On("Create", mock.Anything, item).Return("Thornmail", nil).Once()
	mockPub.On("PublishItemEvent", eventFor(models.ItemCreated, "Thornmail")).Return(nil).Once()

	name, err := service.CreateItem(context.Background(), item)
	assert.NoError(t, err)
	assert.Equal(t, "Thornmail", name)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestItemService_NilStatsAreStoredEmpty(t *testing.T) {
	repo := repositories.NewMockItemRepository()
	service := services.NewItemService(repo, nil)
	ctx := context.Background()

	item := sampleItem()
	item.Stats = nil
	_, err := service.CreateItem(ctx, item)
	require.NoError(t, err)
	assert.Nil(t, item.Stats, "caller's item must not be modified")

	got, err := service.GetItem(ctx, item.Name)
	require.NoError(t, err)
	assert.Equal(t, map[models.Stat]int{}, got.Stats)

	update := sampleItem()
	update.Stats = nil
	updated, err := service.UpdateItem(ctx, item.Name, update)
	require.NoError(t, err)
	assert.Equal(t, map[models.Stat]int{}, updated.Stats)
}

func TestItemService_CreateItemValidation(t *testing.T) {
	mockRepo := new(MockItemRepository)
	mockPub := new(MockPublisher)
	service := services.NewItemService(mockRepo, mockPub)

	item := sampleItem()
	item.SellPrice = item.Price

	_, err := service.CreateItem(context.Background(), item)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockPub.AssertNotCalled(t, "PublishItemEvent", mock.Anything)
}

func TestItemService_InvalidItemIsNeverWritten(t *testing.T) {
	repo := repositories.NewMockItemRepository()
	service := services.NewItemService(repo, nil)
	ctx := context.Background()

	item := sampleItem()
	item.SellPrice = item.Price + 10

	_, err := service.CreateItem(ctx, item)
	require.ErrorIs(t, err, apperror.ErrValidation)

	names, err := service.ListItems(ctx, models.ItemFilter{})
	require.NoError(t, err)
	assert.NotContains(t, names, item.Name)
}

func TestItemService_CreateItemErrors(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo, nil)
	item := sampleItem()

	mockRepo.On("Create", mock.Anything, item).Return("", fmt.Errorf("item Thornmail: %w", apperror.ErrConflict)).Once()
	_, err := service.CreateItem(context.Background(), item)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	mockRepo.On("Create", mock.Anything, item).Return("", errors.New("pq: connection reset by peer")).Once()
	_, err = service.CreateItem(context.Background(), item)
	assert.ErrorIs(t, err, apperror.ErrStorage)
	assert.NotContains(t, err.Error(), "pq:")
	mockRepo.AssertExpectations(t)
}

func TestItemService_GetItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo, nil)
	expected := sampleItem()

	mockRepo.On("Get", mock.Anything, "Thornmail").Return(expected, nil).Once()
	item, err := service.GetItem(context.Background(), "Thornmail")
	assert.NoError(t, err)
	assert.Equal(t, expected, item)

	mockRepo.On("Get", mock.Anything, "Ghost").Return(nil, fmt.Errorf("item Ghost: %w", apperror.ErrNotFound)).Once()
	item, err = service.GetItem(context.Background(), "Ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Nil(t, item)
	mockRepo.AssertExpectations(t)
}

func TestItemService_UpdateItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	mockPub := new(MockPublisher)
	service := services.NewItemService(mockRepo, mockPub)

	body := sampleItem()
	body.Name = ""
	stored := sampleItem()

	// An empty name is filled from the path before validation.
	mockRepo.On("Update", mock.Anything, "Thornmail", mock.MatchedBy(func(i *models.Item) bool {
		return i.Name == "Thornmail"
	})).Return(stored, nil).Once()
	mockPub.On("PublishItemEvent", eventFor(models.ItemUpdated, "Thornmail")).Return(nil).Once()

	updated, err := service.UpdateItem(context.Background(), "Thornmail", body)
	require.NoError(t, err)
	assert.Equal(t, stored, updated)
	assert.Empty(t, body.Name, "caller's item must not be modified")
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestItemService_UpdateItemFailures(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo, nil)

	bad := sampleItem()
	bad.Price = -5
	_, err := service.UpdateItem(context.Background(), "Thornmail", bad)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	mockRepo.On("Update", mock.Anything, "Ghost", mock.Anything).Return(nil, fmt.Errorf("item Ghost: %w", apperror.ErrNotFound)).Once()
	_, err = service.UpdateItem(context.Background(), "Ghost", sampleItem())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestItemService_DeleteItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	mockPub := new(MockPublisher)
	service := services.NewItemService(mockRepo, mockPub)

	mockRepo.On("Delete", mock.Anything, "Thornmail").Return(nil).Once()
	mockPub.On("PublishItemEvent", eventFor(models.ItemDeleted, "Thornmail")).Return(errors.New("channel closed")).Once()
	assert.NoError(t, service.DeleteItem(context.Background(), "Thornmail"), "publish failures are not returned")

	mockRepo.On("Delete", mock.Anything, "Ghost").Return(fmt.Errorf("item Ghost: %w", apperror.ErrNotFound)).Once()
	assert.ErrorIs(t, service.DeleteItem(context.Background(), "Ghost"), apperror.ErrNotFound)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestItemService_ListItems(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo, nil)
	filter := models.ItemFilter{
		Stats: []models.Stat{models.StatArmor},
		Price: &models.PriceFilter{Threshold: 100, GreaterOrEqual: true},
	}

	mockRepo.On("List", mock.Anything, filter).Return([]string{"Thornmail"}, nil).Once()
	names, err := service.ListItems(context.Background(), filter)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Thornmail"}, names)

	_, err = service.ListItems(context.Background(), models.ItemFilter{Stats: []models.Stat{"Mana"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	mockRepo.AssertExpectations(t)
}
