// internal/adapters/db/catalog_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	categoryColumns  = "id, name, created_at, updated_at"
	categoryNotFound = "Category not found"

	pharmacyColumns  = "id, name, location, user_id, created_at, updated_at"
	pharmacyNotFound = "Pharmacy not found"
)

// categoryRepository implements ports.CategoryRepository
type categoryRepository struct {
	db     querier
	logger *slog.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *Database, logger *slog.Logger) ports.CategoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "category")),
	}
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	c := &domain.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
	return mapError(err, categoryNotFound)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, categoryNotFound)
	}
	return c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`,
		c.ID, c.Name, c.UpdatedAt)
	if err != nil {
		return mapError(err, categoryNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(categoryNotFound)
	}
	return nil
}

// Delete removes a category. Medicines still filed under it block the delete.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		mapped := mapError(err, categoryNotFound)
		if errors.Is(mapped, domain.ErrInvalidInput) {
			return domain.Conflict("Category is still used by medicines")
		}
		return mapped
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(categoryNotFound)
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return ScanMany(rows, scanCategory)
}

// pharmacyRepository implements ports.PharmacyRepository
type pharmacyRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPharmacyRepository creates a new pharmacy repository
func NewPharmacyRepository(db *Database, logger *slog.Logger) ports.PharmacyRepository {
	return &pharmacyRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "pharmacy")),
	}
}

func scanPharmacy(row pgx.Row) (*domain.Pharmacy, error) {
	p := &domain.Pharmacy{}
	if err := row.Scan(&p.ID, &p.Name, &p.Location, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pharmacyRepository) Create(ctx context.Context, p *domain.Pharmacy) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO pharmacies (id, name, location, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Location, p.UserID, p.CreatedAt, p.UpdatedAt)
	return mapError(err, pharmacyNotFound)
}

func (r *pharmacyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pharmacy, error) {
	p, err := scanPharmacy(r.db.QueryRow(ctx, `SELECT `+pharmacyColumns+` FROM pharmacies WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, pharmacyNotFound)
	}
	return p, nil
}

func (r *pharmacyRepository) Update(ctx context.Context, p *domain.Pharmacy) error {
	p.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE pharmacies SET name = $2, location = $3, user_id = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Name, p.Location, p.UserID, p.UpdatedAt)
	if err != nil {
		return mapError(err, pharmacyNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(pharmacyNotFound)
	}
	return nil
}

func (r *pharmacyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pharmacies WHERE id = $1`, id)
	if err != nil {
		return mapError(err, pharmacyNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(pharmacyNotFound)
	}
	return nil
}

func (r *pharmacyRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Pharmacy, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+pharmacyColumns+` FROM pharmacies WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pharmacies: %w", err)
	}
	return ScanMany(rows, scanPharmacy)
}

func (r *pharmacyRepository) AddCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pharmacy_categories (pharmacy_id, category_id) VALUES ($1, $2)`,
		pharmacyID, categoryID)
	return mapError(err, pharmacyNotFound)
}

// ReplaceCategory swaps one category link for another atomically.
func (r *pharmacyRepository) ReplaceCategory(ctx context.Context, pharmacyID, oldCategoryID, newCategoryID uuid.UUID) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM pharmacy_categories WHERE pharmacy_id = $1 AND category_id = $2`,
			pharmacyID, oldCategoryID)
		if err != nil {
			return mapError(err, categoryNotFound)
		}
		if tag.RowsAffected() == 0 {
			return domain.NotFound("Category not linked to pharmacy")
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO pharmacy_categories (pharmacy_id, category_id) VALUES ($1, $2)`,
			pharmacyID, newCategoryID)
		return mapError(err, categoryNotFound)
	})
}

func (r *pharmacyRepository) RemoveCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM pharmacy_categories WHERE pharmacy_id = $1 AND category_id = $2`,
		pharmacyID, categoryID)
	if err != nil {
		return mapError(err, categoryNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Category not linked to pharmacy")
	}
	return nil
}

func (r *pharmacyRepository) Categories(ctx context.Context, pharmacyID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.created_at, c.updated_at
		FROM categories c
		JOIN pharmacy_categories pc ON pc.category_id = c.id
		WHERE pc.pharmacy_id = $1
		ORDER BY c.name ASC`, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pharmacy categories: %w", err)
	}
	return ScanMany(rows, scanCategory)
}
