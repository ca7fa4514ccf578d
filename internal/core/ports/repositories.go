// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// MedicineRepository is the persistence port for medicine records outside
// of a ledger transaction.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *domain.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	FindByName(ctx context.Context, name string) (*domain.Medicine, error)
	Update(ctx context.Context, id uuid.UUID, update domain.MedicineUpdate) (*domain.Medicine, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.MedicineFilter) ([]*domain.Medicine, int64, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CategoryRepository persists medicine categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Category, error)
}

// PharmacyRepository persists pharmacies and their category links.
type PharmacyRepository interface {
	Create(ctx context.Context, p *domain.Pharmacy) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pharmacy, error)
	Update(ctx context.Context, p *domain.Pharmacy) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Pharmacy, error)

	AddCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error
	ReplaceCategory(ctx context.Context, pharmacyID, oldCategoryID, newCategoryID uuid.UUID) error
	RemoveCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error
	Categories(ctx context.Context, pharmacyID uuid.UUID) ([]*domain.Category, error)
}

// DashboardRepository computes aggregate stock and sales figures.
type DashboardRepository interface {
	Summary(ctx context.Context, lowStockThreshold, topN int) (*domain.DashboardSummary, error)
}
