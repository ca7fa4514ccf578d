// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const tokenIssuer = "pharmacy-be"

// AuthConfig configures token signing and password hashing.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	BcryptCost int
}

// sessionClaims are the JWT claims of an issued bearer token. The token ID is
// the session ID, so revoking the session revokes the token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// AuthService registers users and manages bearer sessions
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	cfg      AuthConfig
	now      func() time.Time
	logger   *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With(slog.String("service", "auth")),
	}
}

// WithClock replaces the clock used for token timestamps.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates a user with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, reg.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, domain.Conflict("Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		MobileNumber: reg.MobileNumber,
		Age:          reg.Age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()))

	return user, nil
}

// Login checks the credentials, opens a session and returns its signed token
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Session, error) {
	if err := creds.Validate(); err != nil {
		return "", nil, err
	}

	invalid := domain.Unauthorized("Invalid username/email or password.")

	user, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, invalid
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.logger.WarnContext(ctx, "login rejected", slog.String("user_id", user.ID.String()))
		return "", nil, invalid
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Expiration),
	}

	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Email: user.Email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.sessions.Save(ctx, session, s.cfg.Expiration); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("session_id", session.ID.String()))

	return token, session, nil
}

// Authenticate resolves a bearer token to its live session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	unauthorized := domain.Unauthorized("Unauthorized")
	if token == "" {
		return nil, unauthorized
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, unauthorized
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, unauthorized
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, unauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID.String() != claims.Subject {
		return nil, unauthorized
	}

	return session, nil
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged out", slog.String("session_id", sessionID.String()))
	return nil
}
