// internal/handlers/health_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

type stubInspector struct {
	queues []string
	err    error
}

func (s stubInspector) Queues() ([]string, error) {
	return s.queues, s.err
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: queue, Pending: 2, Active: 1}, nil
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		dbErr          error
		cacheErr       error
		inspector      handlers.QueueInspector
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "all_healthy",
			inspector:      stubInspector{queues: []string{"critical", "default"}},
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "without_queue_inspector",
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "database_down",
			dbErr:          errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
		},
		{
			name:           "redis_down",
			cacheErr:       errors.New("dial tcp: i/o timeout"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
		},
		{
			name:           "queue_unreachable",
			inspector:      stubInspector{err: errors.New("NOAUTH")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := mocks.NewMockDatabase(ctrl)
			mockCache := mocks.NewMockCacheRepository(ctrl)

			mockDB.EXPECT().Ping(gomock.Any()).Return(tt.dbErr)
			if tt.dbErr == nil {
				mockDB.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"total_conns": 4})
			}
			mockCache.EXPECT().Ping(gomock.Any()).Return(tt.cacheErr)

			handler := handlers.NewHealthHandler(mockDB, mockCache, tt.inspector, "1.2.3", "test", helpers.TestLogger())

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.expectedStatus, w.Code)

			var status handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.expectedState, status.Status)
			assert.Equal(t, "1.2.3", status.Version)
			assert.Contains(t, status.Services, "database")
			assert.Contains(t, status.Services, "redis")
			assert.NotEmpty(t, status.System.GoVersion)
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mocks.NewMockDatabase(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		mockDB.EXPECT().Ping(gomock.Any()).Return(nil)
		mockCache.EXPECT().Ping(gomock.Any()).Return(nil)

		handler := handlers.NewHealthHandler(mockDB, mockCache, nil, "dev", "test", helpers.TestLogger())

		w := httptest.NewRecorder()
		handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assertText(t, w, http.StatusOK, "ready")
	})

	t.Run("database_not_ready", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mocks.NewMockDatabase(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		mockDB.EXPECT().Ping(gomock.Any()).Return(errors.New("starting up"))

		handler := handlers.NewHealthHandler(mockDB, mockCache, nil, "dev", "test", helpers.TestLogger())

		w := httptest.NewRecorder()
		handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assertText(t, w, http.StatusServiceUnavailable, "not ready")
	})

	t.Run("redis_not_ready", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mocks.NewMockDatabase(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		mockDB.EXPECT().Ping(gomock.Any()).Return(nil)
		mockCache.EXPECT().Ping(gomock.Any()).Return(errors.New("LOADING"))

		handler := handlers.NewHealthHandler(mockDB, mockCache, nil, "dev", "test", helpers.TestLogger())

		w := httptest.NewRecorder()
		handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assertText(t, w, http.StatusServiceUnavailable, "not ready")
	})
}
