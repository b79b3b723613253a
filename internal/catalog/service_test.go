package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"macrolog/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFoodRepository is a mock implementation of repository.FoodRepository.
type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) GetByName(ctx context.Context, name string) (*model.FoodRecord, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodRecord), args.Error(1)
}

func (m *MockFoodRepository) Create(ctx context.Context, input model.FoodInput) (*model.FoodRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodRecord), args.Error(1)
}

func (m *MockFoodRepository) GetAll(ctx context.Context) ([]model.FoodRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodRecord), args.Error(1)
}

func (m *MockFoodRepository) DeleteByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func TestService_FindByName(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	eggs := &model.FoodRecord{ID: 1, Name: "Eggs", ProteinG: 6, Calories: 70, ServingSize: 1, Unit: "g"}

	tests := []struct {
		name        string
		foodName    string
		mockReturn  *model.FoodRecord
		mockError   error
		expectError error
	}{
		{
			name:       "Hit",
			foodName:   "eggs",
			mockReturn: eggs,
		},
		{
			name:        "Miss maps to ErrFoodNotFound",
			foodName:    "unicorn",
			mockReturn:  nil,
			expectError: model.ErrFoodNotFound,
		},
		{
			name:        "Blank name rejected without repository call",
			foodName:    "  ",
			expectError: model.ErrValidationRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockFoodRepository)
			service := NewService(mockRepo, logger)

			if tt.expectError != model.ErrValidationRejected {
				mockRepo.On("GetByName", ctx, tt.foodName).Return(tt.mockReturn, tt.mockError)
			}

			food, err := service.FindByName(ctx, tt.foodName)

			if tt.expectError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectError, err)
				assert.Nil(t, food)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, food)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Create(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	input := model.FoodInput{Name: "Eggs", ProteinG: 6, Calories: 70, ServingSize: 1, Unit: "g"}
	created := &model.FoodRecord{ID: 1, Name: "Eggs", ProteinG: 6, Calories: 70, ServingSize: 1, Unit: "g"}

	t.Run("Success refreshes snapshot", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		service := NewService(mockRepo, logger)

		mockRepo.On("Create", ctx, input).Return(created, nil)
		mockRepo.On("GetAll", ctx).Return([]model.FoodRecord{*created}, nil)

		food, err := service.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int64(1), food.ID)

		// The new food is searchable without waiting for the ticker.
		assert.Len(t, service.Search("egg"), 1)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate name passes through unchanged", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		service := NewService(mockRepo, logger)

		mockRepo.On("Create", ctx, input).Return(nil, model.ErrDuplicateFoodName)

		food, err := service.Create(ctx, input)
		require.Error(t, err)
		assert.Equal(t, model.ErrDuplicateFoodName, err)
		assert.Nil(t, food)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Negative macros rejected", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		service := NewService(mockRepo, logger)

		bad := input
		bad.ProteinG = -1

		_, err := service.Create(ctx, bad)
		assert.Equal(t, model.ErrValidationRejected, err)

		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Repository error wrapped", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		service := NewService(mockRepo, logger)

		mockRepo.On("Create", ctx, input).Return(nil, errors.New("connection refused"))

		_, err := service.Create(ctx, input)
		require.Error(t, err)
		assert.NotEqual(t, model.ErrDuplicateFoodName, err)
	})
}

func TestService_Search(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	foods := []model.FoodRecord{
		{ID: 1, Name: "Scrambled Eggs"},
		{ID: 2, Name: "Eggplant"},
		{ID: 3, Name: "Oatmeal"},
	}

	mockRepo := new(MockFoodRepository)
	service := NewService(mockRepo, logger)
	mockRepo.On("GetAll", ctx).Return(foods, nil)

	require.NoError(t, service.RefreshSnapshot(ctx))

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{name: "Substring match is case-insensitive", query: "EGG", wantIDs: []int64{1, 2}},
		{name: "Mid-word substring", query: "meal", wantIDs: []int64{3}},
		{name: "No match", query: "pizza", wantIDs: nil},
		{name: "Empty query matches nothing", query: "   ", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int64
			for _, food := range service.Search(tt.query) {
				ids = append(ids, food.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		service := NewService(mockRepo, logger)

		mockRepo.On("DeleteByName", ctx, "Eggs").Return(nil)
		mockRepo.On("GetAll", ctx).Return([]model.FoodRecord{}, nil)

		require.NoError(t, service.Delete(ctx, "Eggs"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing food", func(t *testing.T) {
		mockRepo := new(MockFoodRepository)
		service := NewService(mockRepo, logger)

		mockRepo.On("DeleteByName", ctx, "Eggs").Return(model.ErrFoodNotFound)

		err := service.Delete(ctx, "Eggs")
		assert.Equal(t, model.ErrFoodNotFound, err)
	})
}

func TestService_StartSnapshotRefresh(t *testing.T) {
	logger := zerolog.Nop()

	mockRepo := new(MockFoodRepository)
	service := NewService(mockRepo, logger)

	mockRepo.On("GetAll", mock.Anything).Return([]model.FoodRecord{{ID: 1, Name: "Eggs"}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service.StartSnapshotRefresh(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(service.Search("eggs")) == 1
	}, time.Second, 10*time.Millisecond)
}
