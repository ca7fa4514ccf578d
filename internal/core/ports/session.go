// internal/core/ports/session.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// SessionStore keeps live login sessions. Get returns domain.ErrNotFound for
// unknown or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
