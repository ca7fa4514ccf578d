// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// LedgerService keeps medicine stock consistent with the recorded sales.
type LedgerService interface {
	RecordSale(ctx context.Context, req domain.SaleRequest) (*domain.Sale, error)
	ReviseSale(ctx context.Context, saleID uuid.UUID, rev domain.SaleRevision) (*domain.Sale, error)
	RemoveSale(ctx context.Context, saleID uuid.UUID) error
	ListSales(ctx context.Context) ([]*domain.Sale, error)
}

// MedicineService manages the medicine catalogue.
type MedicineService interface {
	Create(ctx context.Context, medicine *domain.Medicine) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	Update(ctx context.Context, id uuid.UUID, update domain.MedicineUpdate) (*domain.Medicine, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.MedicineFilter) (*MedicineList, error)
	Restock(ctx context.Context, id uuid.UUID, units int) (int, error)
	Upsert(ctx context.Context, medicine *domain.Medicine) (created bool, err error)
	FindByName(ctx context.Context, name string) (*domain.Medicine, error)
}

// StockIntakeService credits supplier invoices and imported stock sheets.
// Each job is applied in one transaction and at most once per job id.
type StockIntakeService interface {
	ApplyDelivery(ctx context.Context, jobID string, lines []domain.DeliveryLine) (*domain.IntakeOutcome, error)
	ApplyImport(ctx context.Context, jobID string, rows []domain.ImportRow) (*domain.IntakeOutcome, error)
}

// MedicineList is one page of medicines.
type MedicineList struct {
	Items      []*domain.Medicine `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}

// CategoryService manages categories.
type CategoryService interface {
	Create(ctx context.Context, c *domain.Category) error
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Category, error)
}

// PharmacyService manages pharmacies and the categories they stock.
type PharmacyService interface {
	Create(ctx context.Context, p *domain.Pharmacy) error
	Update(ctx context.Context, p *domain.Pharmacy) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Pharmacy, error)

	AddCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error
	ReplaceCategory(ctx context.Context, pharmacyID, oldCategoryID, newCategoryID uuid.UUID) error
	RemoveCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error
}

// AuthService registers users and manages their sessions.
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (token string, session *domain.Session, err error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}
