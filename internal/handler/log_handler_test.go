package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"macrolog/internal/cache"
	"macrolog/internal/model"
	"macrolog/internal/resolution"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogRepository is a mock implementation of repository.LogRepository.
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Create(ctx context.Context, entry *model.DailyLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogRepository) GetByDate(ctx context.Context, date time.Time) ([]model.LoggedFood, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoggedFood), args.Error(1)
}

func (m *MockLogRepository) Delete(ctx context.Context, id uuid.UUID) (time.Time, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(time.Time), args.Error(1)
}

// stubEstimator fails every call; the handler tests below only exercise
// paths that must not reach the estimator.
type stubEstimator struct{}

func (stubEstimator) Estimate(context.Context, string) (*model.NutritionEstimate, error) {
	return nil, model.ErrEstimationFailed
}

// stubTracker ignores usage updates.
type stubTracker struct{}

func (stubTracker) Track(context.Context, int64, float64) error { return nil }
func (stubTracker) GetFrequent(context.Context, int) ([]model.FrequentFood, error) {
	return nil, nil
}
func (stubTracker) UpdateDefaultServingSize(context.Context, int64, float64) error { return nil }

func newLogHandler(t *testing.T, catalogService *MockCatalogService, logRepo *MockLogRepository, store *memCache) *LogHandler {
	t.Helper()
	workflow := resolution.NewWorkflow(
		catalogService, stubEstimator{}, logRepo, stubTracker{}, store, zerolog.Nop(),
	)
	return NewLogHandler(workflow, logRepo, store, zerolog.Nop())
}

func TestLogHandler_Create(t *testing.T) {
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	t.Run("Known food commits without estimation", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		logRepo := new(MockLogRepository)
		store := newMemCache()
		store.Put(context.Background(), cache.KeyDailyLog(date), []byte(`stale`))

		catalogService.On("FindByName", mock.Anything, "Banana").
			Return(&model.FoodRecord{ID: 7, Name: "Banana", Calories: 105}, nil)
		logRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.DailyLogEntry")).Return(nil)

		handler := newLogHandler(t, catalogService, logRepo, store)

		body := `{"name": "Banana", "date": "2026-08-26", "mealType": "Breakfast", "servingSize": 2}`
		req := httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"Banana"`)

		// Commit dropped the now-stale cached log for that date.
		_, ok := store.Get(context.Background(), cache.KeyDailyLog(date))
		assert.False(t, ok)

		catalogService.AssertExpectations(t)
		logRepo.AssertExpectations(t)
	})

	t.Run("Reviewed food payload skips lookup and estimation", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		logRepo := new(MockLogRepository)
		store := newMemCache()

		catalogService.On("Create", mock.Anything, mock.AnythingOfType("model.FoodInput")).
			Return(&model.FoodRecord{ID: 8, Name: "2 eggs", ProteinG: 12, Calories: 140}, nil)
		logRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.DailyLogEntry")).Return(nil)

		handler := newLogHandler(t, catalogService, logRepo, store)

		body := `{
			"food": {"foodName": "2 eggs", "proteinG": 12, "calories": 140, "servingSize": 1, "unit": "serving"},
			"date": "2026-08-26", "mealType": "Breakfast", "servingSize": 1
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		catalogService.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
		logRepo.AssertExpectations(t)
	})

	t.Run("Bad date rejected", func(t *testing.T) {
		handler := newLogHandler(t, new(MockCatalogService), new(MockLogRepository), newMemCache())

		body := `{"name": "Banana", "date": "26/08/2026", "mealType": "Lunch"}`
		req := httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid meal type rejected", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		catalogService.On("FindByName", mock.Anything, "Banana").
			Return(&model.FoodRecord{ID: 7, Name: "Banana"}, nil)

		handler := newLogHandler(t, catalogService, new(MockLogRepository), newMemCache())

		body := `{"name": "Banana", "date": "2026-08-26", "mealType": "Brunch", "servingSize": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogHandler_GetByDate(t *testing.T) {
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	t.Run("Miss fetches and populates cache", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		logRepo := new(MockLogRepository)
		store := newMemCache()

		logRepo.On("GetByDate", mock.Anything, date).Return([]model.LoggedFood{
			{Name: "Banana", Calories: 105},
		}, nil)

		handler := newLogHandler(t, catalogService, logRepo, store)

		req := httptest.NewRequest(http.MethodGet, "/api/log?date=2026-08-26", nil)
		w := httptest.NewRecorder()

		handler.GetByDate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Banana")

		cached, ok := store.Get(context.Background(), cache.KeyDailyLog(date))
		require.True(t, ok)
		assert.Contains(t, string(cached), "Banana")
	})

	t.Run("Hit never touches the backing store", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		logRepo := new(MockLogRepository)
		store := newMemCache()
		store.Put(context.Background(), cache.KeyDailyLog(date), []byte(`[{"name":"Cached"}]`))

		handler := newLogHandler(t, catalogService, logRepo, store)

		req := httptest.NewRequest(http.MethodGet, "/api/log?date=2026-08-26", nil)
		w := httptest.NewRecorder()

		handler.GetByDate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Cached")
		logRepo.AssertNotCalled(t, "GetByDate", mock.Anything, mock.Anything)
	})

	t.Run("Missing date parameter rejected", func(t *testing.T) {
		handler := newLogHandler(t, new(MockCatalogService), new(MockLogRepository), newMemCache())

		req := httptest.NewRequest(http.MethodGet, "/api/log", nil)
		w := httptest.NewRecorder()

		handler.GetByDate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogHandler_Delete(t *testing.T) {
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	entryID := uuid.New()

	t.Run("Invalidates the cache for the deleted entry's date", func(t *testing.T) {
		logRepo := new(MockLogRepository)
		store := newMemCache()
		store.Put(context.Background(), cache.KeyDailyLog(date), []byte(`stale`))

		// The repository, not the client, says which day the entry
		// belonged to.
		logRepo.On("Delete", mock.Anything, entryID).Return(date, nil)

		handler := newLogHandler(t, new(MockCatalogService), logRepo, store)

		req := httptest.NewRequest(http.MethodDelete, "/api/log/"+entryID.String(), nil)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		_, ok := store.Get(context.Background(), cache.KeyDailyLog(date))
		assert.False(t, ok)
		logRepo.AssertExpectations(t)
	})

	t.Run("Unknown entry returns 404", func(t *testing.T) {
		logRepo := new(MockLogRepository)
		logRepo.On("Delete", mock.Anything, entryID).Return(time.Time{}, model.ErrLogEntryNotFound)

		handler := newLogHandler(t, new(MockCatalogService), logRepo, newMemCache())

		req := httptest.NewRequest(http.MethodDelete, "/api/log/"+entryID.String(), nil)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid ID rejected", func(t *testing.T) {
		handler := newLogHandler(t, new(MockCatalogService), new(MockLogRepository), newMemCache())

		req := httptest.NewRequest(http.MethodDelete, "/api/log/not-a-uuid", nil)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
