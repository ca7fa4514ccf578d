// internal/handlers/auth_test.go
package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestAuthHandler_Register(t *testing.T) {
	registration := domain.Registration{
		Name:         "Ada",
		Email:        "ada@example.com",
		Password:     "s3cret",
		MobileNumber: "555-0100",
		Age:          36,
	}

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "registers",
			expectedStatus: http.StatusOK,
			expectedBody:   "User registered successfully.",
		},
		{
			name:           "duplicate_email",
			serviceErr:     domain.Conflict("Email already exists"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Error: Email already exists",
		},
		{
			name:           "bad_email",
			serviceErr:     domain.Invalid("Invalid email format"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Error: Invalid email format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockAuthService(ctrl)
			handler := handlers.NewAuthHandler(mockService, helpers.TestLogger())

			var user *domain.User
			if tt.serviceErr == nil {
				user = helpers.CreateTestUser()
			}
			mockService.EXPECT().Register(gomock.Any(), registration).Return(user, tt.serviceErr)

			w := httptest.NewRecorder()
			handler.Register(w, jsonRequest(t, http.MethodPost, "/register", registration))

			assertText(t, w, tt.expectedStatus, tt.expectedBody)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	creds := domain.Credentials{Email: "ada@example.com", Password: "s3cret"}

	t.Run("returns_bearer_header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockAuthService(ctrl)
		handler := handlers.NewAuthHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			Login(gomock.Any(), creds).
			Return("signed.jwt.token", &domain.Session{ID: uuid.New()}, nil)

		w := httptest.NewRecorder()
		handler.Login(w, jsonRequest(t, http.MethodPost, "/login", creds))

		assertText(t, w, http.StatusOK, "Login successful.")
		assert.Equal(t, "Bearer signed.jwt.token", w.Header().Get("Authorization"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("bad_credentials_are_401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockAuthService(ctrl)
		handler := handlers.NewAuthHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			Login(gomock.Any(), creds).
			Return("", nil, domain.Unauthorized("Invalid username/email or password."))

		w := httptest.NewRecorder()
		handler.Login(w, jsonRequest(t, http.MethodPost, "/login", creds))

		assertText(t, w, http.StatusUnauthorized, "Invalid username/email or password.")
		assert.Empty(t, w.Header().Get("Authorization"))
	})

	t.Run("missing_fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockAuthService(ctrl)
		handler := handlers.NewAuthHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			Login(gomock.Any(), domain.Credentials{Email: "ada@example.com"}).
			Return("", nil, domain.Invalid("Username or password missing"))

		w := httptest.NewRecorder()
		handler.Login(w, jsonRequest(t, http.MethodPost, "/login", map[string]string{"email": "ada@example.com"}))

		assertText(t, w, http.StatusBadRequest, "Error: Username or password missing")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockAuthService(ctrl)
	handler := handlers.NewAuthHandler(mockService, helpers.TestLogger())

	t.Run("deletes_session", func(t *testing.T) {
		mockService.EXPECT().Logout(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Logout(w, asUser(httptest.NewRequest(http.MethodPost, "/logout", nil), uuid.New()))

		assertText(t, w, http.StatusOK, "Logout successful.")
	})

	t.Run("without_session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assertText(t, w, http.StatusUnauthorized, "Unauthorized")
	})
}
