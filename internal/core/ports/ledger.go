// internal/core/ports/ledger.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// MedicineStore is the medicine side of the ledger. Implementations bound to
// a transaction lock the row returned by GetForUpdate until commit.
type MedicineStore interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int) error

	// FindByNameForUpdate matches the name case-insensitively and locks the row.
	FindByNameForUpdate(ctx context.Context, name string) (*domain.Medicine, error)
	Create(ctx context.Context, medicine *domain.Medicine) error
	// Save writes description, price, category and stock of an existing medicine.
	Save(ctx context.Context, medicine *domain.Medicine) error
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReceiptStore records stock intake jobs that have been applied.
type ReceiptStore interface {
	// Claim returns false when jobID was already recorded.
	Claim(ctx context.Context, jobID, kind string) (bool, error)
}

// SaleStore is the sale side of the ledger.
type SaleStore interface {
	Create(ctx context.Context, s *domain.Sale) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	Update(ctx context.Context, s *domain.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Sale, error)
}

// LedgerStores exposes the stores bound to one transaction.
type LedgerStores interface {
	Medicines() MedicineStore
	Sales() SaleStore
	Receipts() ReceiptStore
}

// LedgerScope runs fn inside a single transaction. Any error returned by fn
// rolls back every write made through the stores.
type LedgerScope interface {
	Execute(ctx context.Context, fn func(stores LedgerStores) error) error
}
