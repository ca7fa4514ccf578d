// internal/handlers/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/pkg/logger"
)

// Authenticator resolves a bearer token to its session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Auth rejects requests without a valid bearer token with 401 and stores the
// session's user and session IDs in the request context.
func Auth(auth Authenticator, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := auth.Authenticate(ctx, BearerToken(r))
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					l.ErrorContext(ctx, "failed to authenticate request",
						slog.String("error", err.Error()))
				}
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("X-Error-Code", "unauthorized")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("Unauthorized"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}

// BearerToken extracts the token from the Authorization header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the authenticated user's ID
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(logger.ContextKeyUserID).(uuid.UUID)
	return id, ok
}

// SessionID returns the authenticated session's ID
func SessionID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(logger.ContextKeySessionID).(uuid.UUID)
	return id, ok
}

// WithSession stores session identifiers in ctx as Auth does
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	ctx = context.WithValue(ctx, logger.ContextKeyUserID, session.UserID)
	return context.WithValue(ctx, logger.ContextKeySessionID, session.ID)
}
