// internal/core/services/catalog.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// CategoryService handles medicine categories
type CategoryService struct {
	repo   ports.CategoryRepository
	logger *slog.Logger
}

var _ ports.CategoryService = (*CategoryService)(nil)

func NewCategoryService(repo ports.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		logger: logger.With(slog.String("service", "category")),
	}
}

func (s *CategoryService) Create(ctx context.Context, c *domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.PrepareForStorage()

	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", c.ID.String()),
		slog.String("name", c.Name))
	return nil
}

func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	c := &domain.Category{ID: id, Name: name}
	if err := c.Validate(); err != nil {
		return err
	}
	c.PrepareForStorage()

	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.InfoContext(ctx, "category renamed",
		slog.String("category_id", id.String()),
		slog.String("name", c.Name))
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id.String()))
	return nil
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// PharmacyService handles pharmacies and the categories they carry
type PharmacyService struct {
	repo   ports.PharmacyRepository
	users  ports.UserRepository
	logger *slog.Logger
}

var _ ports.PharmacyService = (*PharmacyService)(nil)

func NewPharmacyService(repo ports.PharmacyRepository, users ports.UserRepository, logger *slog.Logger) *PharmacyService {
	return &PharmacyService{
		repo:   repo,
		users:  users,
		logger: logger.With(slog.String("service", "pharmacy")),
	}
}

func (s *PharmacyService) Create(ctx context.Context, p *domain.Pharmacy) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	p.PrepareForStorage()

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create pharmacy: %w", err)
	}

	s.logger.InfoContext(ctx, "pharmacy created",
		slog.String("pharmacy_id", p.ID.String()),
		slog.String("user_id", p.UserID.String()))
	return nil
}

func (s *PharmacyService) Update(ctx context.Context, p *domain.Pharmacy) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	p.PrepareForStorage()

	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update pharmacy: %w", err)
	}

	s.logger.InfoContext(ctx, "pharmacy updated", slog.String("pharmacy_id", p.ID.String()))
	return nil
}

func (s *PharmacyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pharmacy: %w", err)
	}
	s.logger.InfoContext(ctx, "pharmacy deleted", slog.String("pharmacy_id", id.String()))
	return nil
}

func (s *PharmacyService) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Pharmacy, error) {
	pharmacies, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pharmacies: %w", err)
	}
	return pharmacies, nil
}

func (s *PharmacyService) AddCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return domain.Invalid("Category ID missing")
	}
	if err := s.repo.AddCategory(ctx, pharmacyID, categoryID); err != nil {
		return fmt.Errorf("failed to add category to pharmacy: %w", err)
	}
	s.logger.InfoContext(ctx, "category added to pharmacy",
		slog.String("pharmacy_id", pharmacyID.String()),
		slog.String("category_id", categoryID.String()))
	return nil
}

func (s *PharmacyService) ReplaceCategory(ctx context.Context, pharmacyID, oldCategoryID, newCategoryID uuid.UUID) error {
	if newCategoryID == uuid.Nil {
		return domain.Invalid("New Category ID missing")
	}
	if err := s.repo.ReplaceCategory(ctx, pharmacyID, oldCategoryID, newCategoryID); err != nil {
		return fmt.Errorf("failed to replace pharmacy category: %w", err)
	}
	s.logger.InfoContext(ctx, "pharmacy category replaced",
		slog.String("pharmacy_id", pharmacyID.String()),
		slog.String("old_category_id", oldCategoryID.String()),
		slog.String("new_category_id", newCategoryID.String()))
	return nil
}

func (s *PharmacyService) RemoveCategory(ctx context.Context, pharmacyID, categoryID uuid.UUID) error {
	if err := s.repo.RemoveCategory(ctx, pharmacyID, categoryID); err != nil {
		return fmt.Errorf("failed to remove pharmacy category: %w", err)
	}
	s.logger.InfoContext(ctx, "category removed from pharmacy",
		slog.String("pharmacy_id", pharmacyID.String()),
		slog.String("category_id", categoryID.String()))
	return nil
}

// validate checks the fields and that the owning user exists.
func (s *PharmacyService) validate(ctx context.Context, p *domain.Pharmacy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, p.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("User does not exist")
		}
		return fmt.Errorf("failed to look up pharmacy owner: %w", err)
	}
	return nil
}
