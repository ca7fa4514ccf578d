// internal/adapters/db/ledger_scope.go
package db

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	saleColumns  = "id, medicine_id, units_sold, total_price, sale_date, sale_time, created_at"
	saleNotFound = "Sale not found"
)

// LedgerScope runs ledger operations in a read-committed transaction. Rows
// read through GetForUpdate stay locked until commit or rollback, so two
// operations on the same medicine are applied one after the other.
type LedgerScope struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.LedgerScope = (*LedgerScope)(nil)

// NewLedgerScope creates a ledger scope over the pool
func NewLedgerScope(db *Database, logger *slog.Logger) *LedgerScope {
	return &LedgerScope{
		db:     db,
		logger: logger.With(slog.String("repository", "ledger")),
	}
}

// Execute runs fn in one transaction and commits when it returns nil.
func (s *LedgerScope) Execute(ctx context.Context, fn func(stores ports.LedgerStores) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := s.db.TransactionWithOptions(ctx, opts, func(tx pgx.Tx) error {
		return fn(newLedgerStores(tx))
	})
	if err != nil {
		s.logger.DebugContext(ctx, "ledger transaction rolled back",
			slog.String("error", err.Error()))
	}
	return err
}

type ledgerStores struct {
	medicines *medicineStore
	sales     *saleStore
	receipts  *receiptStore
}

func newLedgerStores(q querier) *ledgerStores {
	return &ledgerStores{
		medicines: &medicineStore{db: q},
		sales:     &saleStore{db: q},
		receipts:  &receiptStore{db: q},
	}
}

func (s *ledgerStores) Medicines() ports.MedicineStore { return s.medicines }
func (s *ledgerStores) Sales() ports.SaleStore         { return s.sales }
func (s *ledgerStores) Receipts() ports.ReceiptStore   { return s.receipts }

// medicineStore implements ports.MedicineStore
type medicineStore struct {
	db querier
}

func (s *medicineStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 FOR UPDATE`

	m, err := scanMedicine(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, medicineNotFound)
	}
	return m, nil
}

func (s *medicineStore) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE medicines SET stock_quantity = $2, updated_at = $3 WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, quantity, time.Now())
	if err != nil {
		return mapError(err, medicineNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(medicineNotFound)
	}
	return nil
}

func (s *medicineStore) FindByNameForUpdate(ctx context.Context, name string) (*domain.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE LOWER(name) = LOWER($1) FOR UPDATE`

	m, err := scanMedicine(s.db.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		return nil, mapError(err, medicineNotFound)
	}
	return m, nil
}

func (s *medicineStore) Create(ctx context.Context, m *domain.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, name, description, price, stock_quantity, category_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(ctx, query,
		m.ID, m.Name, m.Description, m.Price,
		m.StockQuantity, m.CategoryID, m.CreatedAt, m.UpdatedAt,
	)
	return mapError(err, medicineNotFound)
}

func (s *medicineStore) Save(ctx context.Context, m *domain.Medicine) error {
	query := `
		UPDATE medicines
		SET description = $2, price = $3, category_id = $4, stock_quantity = $5, updated_at = $6
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query,
		m.ID, m.Description, m.Price, m.CategoryID, m.StockQuantity, m.UpdatedAt)
	if err != nil {
		return mapError(err, medicineNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(medicineNotFound)
	}
	return nil
}

func (s *medicineStore) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// receiptStore implements ports.ReceiptStore
type receiptStore struct {
	db querier
}

// Claim inserts the receipt. A concurrent claim of the same job waits on the
// primary key until the first transaction ends.
func (s *receiptStore) Claim(ctx context.Context, jobID, kind string) (bool, error) {
	query := `
		INSERT INTO stock_receipts (job_id, kind, applied_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO NOTHING`

	tag, err := s.db.Exec(ctx, query, jobID, kind, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// saleStore implements ports.SaleStore
type saleStore struct {
	db querier
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	sale := &domain.Sale{}
	err := row.Scan(
		&sale.ID, &sale.MedicineID, &sale.UnitsSold, &sale.TotalPrice,
		&sale.Date, &sale.Time, &sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleStore) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (
			id, medicine_id, units_sold, total_price, sale_date, sale_time, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, query,
		sale.ID, sale.MedicineID, sale.UnitsSold, sale.TotalPrice,
		sale.Date, sale.Time, sale.CreatedAt,
	)
	return mapError(err, medicineNotFound)
}

func (s *saleStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`

	sale, err := scanSale(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, saleNotFound)
	}
	return sale, nil
}

func (s *saleStore) Update(ctx context.Context, sale *domain.Sale) error {
	query := `
		UPDATE sales
		SET units_sold = $2, total_price = $3, sale_date = $4, sale_time = $5
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, sale.ID, sale.UnitsSold, sale.TotalPrice, sale.Date, sale.Time)
	if err != nil {
		return mapError(err, saleNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(saleNotFound)
	}
	return nil
}

func (s *saleStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return mapError(err, saleNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(saleNotFound)
	}
	return nil
}

// List returns every sale in insertion order.
func (s *saleStore) List(ctx context.Context) ([]*domain.Sale, error) {
	rows, err := s.db.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY seq ASC`)
	if err != nil {
		return nil, mapError(err, saleNotFound)
	}

	sales, err := ScanMany(rows, scanSale)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	return sales, nil
}
