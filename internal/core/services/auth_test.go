// internal/core/services/auth_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

const testSecret = "test-secret-key-with-at-least-32-chars"

func authConfig() services.AuthConfig {
	return services.AuthConfig{
		Secret:     testSecret,
		Expiration: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func userWithPassword(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return helpers.CreateTestUser(func(u *domain.User) {
		u.Email = "ana@example.com"
		u.PasswordHash = string(hash)
	})
}

func TestAuthService_Register(t *testing.T) {
	valid := domain.Registration{
		Name:         "Ana",
		Email:        " Ana@Example.com ",
		Password:     "s3cret-pass",
		MobileNumber: "+15550100",
		Age:          31,
	}

	tests := []struct {
		name       string
		reg        domain.Registration
		setupMocks func(*mocks.MockUserRepository)
		wantErr    error
	}{
		{
			name: "success",
			reg:  valid,
			setupMocks: func(users *mocks.MockUserRepository) {
				users.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").
					Return(nil, domain.NotFound("User not found"))
				users.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *domain.User) error {
						assert.Equal(t, "ana@example.com", u.Email)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
						return nil
					})
			},
		},
		{
			name: "duplicate_email",
			reg:  valid,
			setupMocks: func(users *mocks.MockUserRepository) {
				users.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").
					Return(helpers.CreateTestUser(), nil)
			},
			wantErr: domain.ErrConflict,
		},
		{
			name:       "missing_fields",
			reg:        domain.Registration{Email: "ana@example.com", Password: "x"},
			setupMocks: func(*mocks.MockUserRepository) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name: "bad_email",
			reg: domain.Registration{
				Name: "Ana", Email: "not-an-email", Password: "x", MobileNumber: "1", Age: 30,
			},
			setupMocks: func(*mocks.MockUserRepository) {},
			wantErr:    domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUserRepository(ctrl)
			sessions := mocks.NewMockSessionStore(ctrl)
			tt.setupMocks(users)

			svc := services.NewAuthService(users, sessions, authConfig(), helpers.TestLogger())
			user, err := svc.Register(context.Background(), tt.reg)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
		})
	}
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	user := userWithPassword(t, "correct horse")

	var stored *domain.Session
	users.EXPECT().FindByEmail(gomock.Any(), "ana@example.com").Return(user, nil)
	sessions.EXPECT().Save(gomock.Any(), gomock.Any(), time.Hour).
		DoAndReturn(func(_ context.Context, s *domain.Session, _ time.Duration) error {
			stored = s
			return nil
		})

	svc := services.NewAuthService(users, sessions, authConfig(), helpers.TestLogger())

	token, session, err := svc.Login(ctx, domain.Credentials{Email: "ANA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, session.UserID)
	assert.Same(t, session, stored)

	sessions.EXPECT().Get(gomock.Any(), session.ID).Return(stored, nil)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)
	assert.Equal(t, user.ID, resolved.UserID)
}

func TestAuthService_LoginRejected(t *testing.T) {
	ctx := context.Background()
	user := userWithPassword(t, "correct horse")

	tests := []struct {
		name       string
		creds      domain.Credentials
		setupMocks func(*mocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:  "wrong_password",
			creds: domain.Credentials{Email: user.Email, Password: "battery staple"},
			setupMocks: func(users *mocks.MockUserRepository) {
				users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
			},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:  "unknown_email",
			creds: domain.Credentials{Email: "nobody@example.com", Password: "x"},
			setupMocks: func(users *mocks.MockUserRepository) {
				users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, domain.NotFound("User not found"))
			},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:       "missing_password",
			creds:      domain.Credentials{Email: user.Email},
			setupMocks: func(*mocks.MockUserRepository) {},
			wantErr:    domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUserRepository(ctrl)
			tt.setupMocks(users)

			svc := services.NewAuthService(users, mocks.NewMockSessionStore(ctrl), authConfig(), helpers.TestLogger())
			_, _, err := svc.Login(ctx, tt.creds)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()

	sign := func(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	now := time.Now()
	sessionID := uuid.New()
	userID := uuid.New()
	claims := jwt.RegisteredClaims{
		ID:        sessionID.String(),
		Issuer:    "pharmacy-be",
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	t.Run("empty_token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), mocks.NewMockSessionStore(ctrl),
			authConfig(), helpers.TestLogger())

		_, err := svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage_token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), mocks.NewMockSessionStore(ctrl),
			authConfig(), helpers.TestLogger())

		_, err := svc.Authenticate(ctx, "not.a.token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), mocks.NewMockSessionStore(ctrl),
			authConfig(), helpers.TestLogger())

		_, err := svc.Authenticate(ctx, sign(t, "some-other-secret-that-is-long-enough", claims))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired_token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), mocks.NewMockSessionStore(ctrl),
			authConfig(), helpers.TestLogger()).
			WithClock(func() time.Time { return now.Add(2 * time.Hour) })

		_, err := svc.Authenticate(ctx, sign(t, testSecret, claims))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("revoked_session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := mocks.NewMockSessionStore(ctrl)
		sessions.EXPECT().Get(gomock.Any(), sessionID).Return(nil, domain.NotFound("Session not found"))

		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), sessions, authConfig(), helpers.TestLogger())
		_, err := svc.Authenticate(ctx, sign(t, testSecret, claims))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("session_of_other_user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := mocks.NewMockSessionStore(ctrl)
		sessions.EXPECT().Get(gomock.Any(), sessionID).
			Return(&domain.Session{ID: sessionID, UserID: uuid.New()}, nil)

		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), sessions, authConfig(), helpers.TestLogger())
		_, err := svc.Authenticate(ctx, sign(t, testSecret, claims))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("session_store_down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := mocks.NewMockSessionStore(ctrl)
		sessions.EXPECT().Get(gomock.Any(), sessionID).Return(nil, errors.New("dial tcp: refused"))

		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), sessions, authConfig(), helpers.TestLogger())
		_, err := svc.Authenticate(ctx, sign(t, testSecret, claims))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionStore(ctrl)
	id := uuid.New()
	sessions.EXPECT().Delete(gomock.Any(), id).Return(nil)

	svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), sessions, authConfig(), helpers.TestLogger())
	require.NoError(t, svc.Logout(context.Background(), id))
}
