// internal/core/services/ledger.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// LedgerService applies sales to medicine stock. Every operation runs in one
// ledger scope, so the stock change and the sale write commit together.
type LedgerService struct {
	scope  ports.LedgerScope
	cache  ports.StockCache
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.LedgerService = (*LedgerService)(nil)

// NewLedgerService creates a new ledger service. cache may be nil.
func NewLedgerService(scope ports.LedgerScope, cache ports.StockCache, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		scope:  scope,
		cache:  cache,
		now:    time.Now,
		logger: logger.With(slog.String("service", "ledger")),
	}
}

// WithClock replaces the clock used to stamp new sales.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// RecordSale withdraws the sold units from stock and stores the sale.
func (s *LedgerService) RecordSale(ctx context.Context, req domain.SaleRequest) (*domain.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		sale      *domain.Sale
		remaining int
	)
	err := s.scope.Execute(ctx, func(stores ports.LedgerStores) error {
		medicine, err := stores.Medicines().GetForUpdate(ctx, req.MedicineID)
		if err != nil {
			return err
		}

		if err := medicine.Withdraw(req.UnitsSold); err != nil {
			return err
		}
		if err := stores.Medicines().UpdateStock(ctx, medicine.ID, medicine.StockQuantity); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		sale = domain.NewSale(medicine.ID, req.UnitsSold, req.TotalPrice, s.now())
		if err := stores.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		remaining = medicine.StockQuantity
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "record", err, slog.String("medicine_id", req.MedicineID.String()))
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	s.invalidate(ctx, sale.MedicineID)

	s.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID.String()),
		slog.String("medicine_id", sale.MedicineID.String()),
		slog.Int("units_sold", sale.UnitsSold),
		slog.Int("stock_remaining", remaining))

	return sale, nil
}

// ReviseSale replaces a sale's fields, returning its old units to stock and
// withdrawing the new ones.
func (s *LedgerService) ReviseSale(ctx context.Context, saleID uuid.UUID, rev domain.SaleRevision) (*domain.Sale, error) {
	if err := rev.Validate(); err != nil {
		return nil, err
	}

	var (
		sale     *domain.Sale
		oldUnits int
		adjusted int
	)
	err := s.scope.Execute(ctx, func(stores ports.LedgerStores) error {
		var err error
		sale, err = stores.Sales().GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		medicine, err := stores.Medicines().GetForUpdate(ctx, sale.MedicineID)
		if err != nil {
			return err
		}

		oldUnits = sale.UnitsSold
		if err := medicine.Rebook(oldUnits, rev.UnitsSold); err != nil {
			return err
		}
		if err := stores.Medicines().UpdateStock(ctx, medicine.ID, medicine.StockQuantity); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		rev.Apply(sale)
		if err := stores.Sales().Update(ctx, sale); err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}
		adjusted = medicine.StockQuantity
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "revise", err, slog.String("sale_id", saleID.String()))
		return nil, fmt.Errorf("failed to revise sale: %w", err)
	}

	s.invalidate(ctx, sale.MedicineID)

	s.logger.InfoContext(ctx, "sale revised",
		slog.String("sale_id", sale.ID.String()),
		slog.String("medicine_id", sale.MedicineID.String()),
		slog.Int("old_units", oldUnits),
		slog.Int("new_units", sale.UnitsSold),
		slog.Int("stock_remaining", adjusted))

	return sale, nil
}

// RemoveSale returns a sale's units to stock and deletes it. Units sold are
// always positive, so the restored stock needs no lower bound check.
func (s *LedgerService) RemoveSale(ctx context.Context, saleID uuid.UUID) error {
	var sale *domain.Sale
	err := s.scope.Execute(ctx, func(stores ports.LedgerStores) error {
		var err error
		sale, err = stores.Sales().GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		medicine, err := stores.Medicines().GetForUpdate(ctx, sale.MedicineID)
		if err != nil {
			return err
		}

		medicine.Restock(sale.UnitsSold)
		if err := stores.Medicines().UpdateStock(ctx, medicine.ID, medicine.StockQuantity); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		if err := stores.Sales().Delete(ctx, sale.ID); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "remove", err, slog.String("sale_id", saleID.String()))
		return fmt.Errorf("failed to remove sale: %w", err)
	}

	s.invalidate(ctx, sale.MedicineID)

	s.logger.InfoContext(ctx, "sale removed",
		slog.String("sale_id", sale.ID.String()),
		slog.String("medicine_id", sale.MedicineID.String()),
		slog.Int("units_restored", sale.UnitsSold))

	return nil
}

// ListSales returns every sale in the order it was recorded.
func (s *LedgerService) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	err := s.scope.Execute(ctx, func(stores ports.LedgerStores) error {
		var err error
		sales, err = stores.Sales().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (s *LedgerService) invalidate(ctx context.Context, medicineID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMedicine(ctx, medicineID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate medicine cache",
			slog.String("medicine_id", medicineID.String()),
			slog.String("error", err.Error()))
	}
}

// logRejected logs expected rejections at warn and everything else at error.
func (s *LedgerService) logRejected(ctx context.Context, op string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("operation", op), slog.String("error", err.Error()))
	if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "sale rejected", attrs...)
		return
	}
	s.logger.ErrorContext(ctx, "sale operation failed", attrs...)
}
