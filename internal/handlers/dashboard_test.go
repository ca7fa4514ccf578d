// internal/handlers/dashboard_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	summary := &domain.DashboardSummary{
		MedicineCount:     3,
		UnitsInStock:      120,
		LowStockCount:     1,
		LowStockThreshold: 10,
		SaleCount:         4,
		UnitsSold:         9,
		Revenue:           decimal.RequireFromString("87.50"),
		TopMedicines: []domain.MedicineSummary{
			{MedicineID: uuid.New(), Name: "Paracetamol", StockQuantity: 40, UnitsSold: 6, Revenue: decimal.RequireFromString("60")},
		},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}

	t.Run("caches_summary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockDashboardRepository(ctrl)
		testRedis := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(testRedis.Client, time.Hour, helpers.TestLogger())
		handler := handlers.NewDashboardHandler(mockRepo, cache, 10, helpers.TestLogger())

		mockRepo.EXPECT().Summary(gomock.Any(), 10, 5).Return(summary, nil).Times(1)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			require.Equal(t, http.StatusOK, w.Code)

			var got domain.DashboardSummary
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, summary.SaleCount, got.SaleCount)
			assert.True(t, summary.Revenue.Equal(got.Revenue))
			require.Len(t, got.TopMedicines, 1)
			assert.Equal(t, "Paracetamol", got.TopMedicines[0].Name)
		}

		ttl := testRedis.Server.TTL(redis_a.BuildKey(redis_a.PrefixDashboard, "sales"))
		assert.Equal(t, 5*time.Minute, ttl)
	})

	t.Run("invalidation_forces_refresh", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockDashboardRepository(ctrl)
		testRedis := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(testRedis.Client, time.Hour, helpers.TestLogger())
		handler := handlers.NewDashboardHandler(mockRepo, cache, 10, helpers.TestLogger())

		mockRepo.EXPECT().Summary(gomock.Any(), 10, 5).Return(summary, nil).Times(2)

		w := httptest.NewRecorder()
		handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		require.Equal(t, http.StatusOK, w.Code)

		// A committed sale drops the dashboard entry
		manager := redis_a.NewCacheManager(cache, helpers.TestLogger())
		require.NoError(t, manager.InvalidateMedicine(t.Context(), uuid.New()))

		w = httptest.NewRecorder()
		handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("repository_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockDashboardRepository(ctrl)
		testRedis := helpers.SetupTestRedis(t)
		cache := redis_a.NewCache(testRedis.Client, time.Hour, helpers.TestLogger())
		handler := handlers.NewDashboardHandler(mockRepo, cache, 10, helpers.TestLogger())

		mockRepo.EXPECT().Summary(gomock.Any(), 10, 5).Return(nil, errors.New("relation does not exist"))

		w := httptest.NewRecorder()
		handler.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assertText(t, w, http.StatusBadRequest, "Error: An unexpected error occurred")
	})
}
