// internal/adapters/db/medicine_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	medicineColumns  = "id, name, description, price, stock_quantity, category_id, created_at, updated_at"
	medicineNotFound = "Medicine not found"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// medicineRepository implements ports.MedicineRepository
type medicineRepository struct {
	db     querier
	logger *slog.Logger
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *Database, logger *slog.Logger) ports.MedicineRepository {
	return newMedicineRepository(db, logger)
}

func newMedicineRepository(q querier, logger *slog.Logger) *medicineRepository {
	return &medicineRepository{
		db:     q,
		logger: logger.With(slog.String("repository", "medicine")),
	}
}

func scanMedicine(row pgx.Row) (*domain.Medicine, error) {
	m := &domain.Medicine{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price,
		&m.StockQuantity, &m.CategoryID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new medicine
func (r *medicineRepository) Create(ctx context.Context, m *domain.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, name, description, price, stock_quantity, category_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		m.ID, m.Name, m.Description, m.Price,
		m.StockQuantity, m.CategoryID, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapError(err, medicineNotFound)
	}

	r.logger.DebugContext(ctx, "medicine saved",
		slog.String("medicine_id", m.ID.String()))

	return nil
}

// GetByID retrieves a medicine by ID
func (r *medicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`

	m, err := scanMedicine(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, medicineNotFound)
	}
	return m, nil
}

// FindByName retrieves a medicine by its case-insensitive name
func (r *medicineRepository) FindByName(ctx context.Context, name string) (*domain.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE LOWER(name) = LOWER($1) LIMIT 1`

	m, err := scanMedicine(r.db.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		return nil, mapError(err, medicineNotFound)
	}
	return m, nil
}

// Update applies the non-nil fields of update
func (r *medicineRepository) Update(ctx context.Context, id uuid.UUID, update domain.MedicineUpdate) (*domain.Medicine, error) {
	query, args, err := buildMedicineUpdate(id, update, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	m, err := scanMedicine(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, medicineNotFound)
	}

	r.logger.DebugContext(ctx, "medicine updated",
		slog.String("medicine_id", id.String()))

	return m, nil
}

// Delete removes a medicine. Its sales go with it.
func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return mapError(err, medicineNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(medicineNotFound)
	}
	return nil
}

// List returns one page of medicines and the total match count
func (r *medicineRepository) List(ctx context.Context, filter domain.MedicineFilter) ([]*domain.Medicine, int64, error) {
	filter.Normalize()

	countSQL, countArgs, err := medicineFilter(psql.Select("COUNT(*)").From("medicines"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	query, args, err := buildMedicineList(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query medicines: %w", err)
	}

	items, err := ScanMany(rows, scanMedicine)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan medicines: %w", err)
	}

	return items, total, nil
}

// AdjustStock adds delta to the stock in one statement and returns the new
// quantity. The table's check constraint rejects a negative result.
func (r *medicineRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE medicines
		SET stock_quantity = stock_quantity + $2, updated_at = $3
		WHERE id = $1
		RETURNING stock_quantity`

	var stock int
	if err := r.db.QueryRow(ctx, query, id, delta, time.Now()).Scan(&stock); err != nil {
		return 0, mapError(err, medicineNotFound)
	}
	return stock, nil
}

func medicineFilter(qb squirrel.SelectBuilder, filter domain.MedicineFilter) squirrel.SelectBuilder {
	if search := strings.TrimSpace(filter.Search); search != "" {
		qb = qb.Where(squirrel.ILike{"name": "%" + search + "%"})
	}
	if filter.CategoryID != nil {
		qb = qb.Where(squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.MaxStock != nil {
		qb = qb.Where(squirrel.LtOrEq{"stock_quantity": *filter.MaxStock})
	}
	return qb
}

func buildMedicineList(filter domain.MedicineFilter) (string, []interface{}, error) {
	qb := medicineFilter(psql.Select(medicineColumns).From("medicines"), filter).
		OrderBy("name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))
	return qb.ToSql()
}

func buildMedicineUpdate(id uuid.UUID, update domain.MedicineUpdate, now time.Time) (string, []interface{}, error) {
	qb := psql.Update("medicines").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + medicineColumns)

	if update.Name != nil {
		qb = qb.Set("name", strings.TrimSpace(*update.Name))
	}
	if update.Description != nil {
		qb = qb.Set("description", *update.Description)
	}
	if update.Price != nil {
		qb = qb.Set("price", *update.Price)
	}
	if update.StockQuantity != nil {
		qb = qb.Set("stock_quantity", *update.StockQuantity)
	}
	if update.CategoryID != nil {
		qb = qb.Set("category_id", *update.CategoryID)
	}
	qb = qb.Set("updated_at", now)

	return qb.ToSql()
}
