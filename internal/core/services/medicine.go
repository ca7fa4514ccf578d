// internal/core/services/medicine.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// MedicineService handles the medicine catalogue
type MedicineService struct {
	repo   ports.MedicineRepository
	cache  ports.StockCache
	logger *slog.Logger
}

var _ ports.MedicineService = (*MedicineService)(nil)

// NewMedicineService creates a new medicine service. cache may be nil.
func NewMedicineService(repo ports.MedicineRepository, cache ports.StockCache, logger *slog.Logger) *MedicineService {
	return &MedicineService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "medicine")),
	}
}

// Create validates and stores a new medicine
func (s *MedicineService) Create(ctx context.Context, m *domain.Medicine) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.PrepareForStorage()

	if err := s.repo.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}

	s.logger.InfoContext(ctx, "medicine created",
		slog.String("medicine_id", m.ID.String()),
		slog.String("name", m.Name),
		slog.Int("stock_quantity", m.StockQuantity))

	return nil
}

// Get retrieves a medicine by ID
func (s *MedicineService) Get(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return m, nil
}

// FindByName returns the medicine with the given name, or nil when none exists.
func (s *MedicineService) FindByName(ctx context.Context, name string) (*domain.Medicine, error) {
	m, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find medicine: %w", err)
	}
	return m, nil
}

// Update applies a partial update
func (s *MedicineService) Update(ctx context.Context, id uuid.UUID, update domain.MedicineUpdate) (*domain.Medicine, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update medicine: %w", err)
	}

	s.invalidate(ctx, id)

	s.logger.InfoContext(ctx, "medicine updated",
		slog.String("medicine_id", id.String()))

	return m, nil
}

// Delete removes a medicine together with its sales
func (s *MedicineService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	s.invalidate(ctx, id)

	s.logger.InfoContext(ctx, "medicine deleted",
		slog.String("medicine_id", id.String()))

	return nil
}

// List returns one page of medicines matching the filter
func (s *MedicineService) List(ctx context.Context, filter domain.MedicineFilter) (*ports.MedicineList, error) {
	filter.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	return &ports.MedicineList{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// Restock adds delivered units to a medicine and returns the new stock.
func (s *MedicineService) Restock(ctx context.Context, id uuid.UUID, units int) (int, error) {
	if units <= 0 {
		return 0, domain.Invalid("restock units must be positive")
	}

	stock, err := s.repo.AdjustStock(ctx, id, units)
	if err != nil {
		return 0, fmt.Errorf("failed to restock medicine: %w", err)
	}

	s.invalidate(ctx, id)

	s.logger.InfoContext(ctx, "medicine restocked",
		slog.String("medicine_id", id.String()),
		slog.Int("units", units),
		slog.Int("stock_quantity", stock))

	return stock, nil
}

// Upsert creates the medicine when its name is unknown. Otherwise the
// existing record takes the new description, price and category and its
// stock grows by m.StockQuantity.
func (s *MedicineService) Upsert(ctx context.Context, m *domain.Medicine) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}

	existing, err := s.FindByName(ctx, m.Name)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return true, s.Create(ctx, m)
	}

	update := domain.MedicineUpdate{
		Description: &m.Description,
		Price:       &m.Price,
		CategoryID:  &m.CategoryID,
	}
	updated, err := s.Update(ctx, existing.ID, update)
	if err != nil {
		return false, err
	}

	if m.StockQuantity > 0 {
		stock, err := s.Restock(ctx, existing.ID, m.StockQuantity)
		if err != nil {
			return false, err
		}
		updated.StockQuantity = stock
	}

	*m = *updated
	return false, nil
}

func (s *MedicineService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMedicine(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate medicine cache",
			slog.String("medicine_id", id.String()),
			slog.String("error", err.Error()))
	}
}
