// internal/core/services/intake.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	receiptInvoice = "invoice"
	receiptImport  = "import"
)

// StockIntakeService credits supplier deliveries and imported stock sheets.
// A job is applied inside one ledger scope together with its receipt, so a
// retried job either finds its receipt and writes nothing, or finds none of
// its earlier writes committed.
type StockIntakeService struct {
	scope  ports.LedgerScope
	cache  ports.StockCache
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.StockIntakeService = (*StockIntakeService)(nil)

// NewStockIntakeService creates a new intake service. cache may be nil.
func NewStockIntakeService(scope ports.LedgerScope, cache ports.StockCache, logger *slog.Logger) *StockIntakeService {
	return &StockIntakeService{
		scope:  scope,
		cache:  cache,
		now:    time.Now,
		logger: logger.With(slog.String("service", "intake")),
	}
}

// ApplyDelivery adds each line's quantity to the medicine of that name.
// Unknown names are reported, not fatal.
func (s *StockIntakeService) ApplyDelivery(ctx context.Context, jobID string, lines []domain.DeliveryLine) (*domain.IntakeOutcome, error) {
	if jobID == "" {
		return nil, domain.Invalid("job id is required")
	}

	var outcome *domain.IntakeOutcome
	err := s.scope.Execute(ctx, func(stores ports.LedgerStores) error {
		outcome = &domain.IntakeOutcome{}

		claimed, err := stores.Receipts().Claim(ctx, jobID, receiptInvoice)
		if err != nil {
			return fmt.Errorf("failed to claim receipt: %w", err)
		}
		if !claimed {
			outcome.Duplicate = true
			return nil
		}

		for _, line := range lines {
			if line.Quantity <= 0 {
				continue
			}

			m, err := stores.Medicines().FindByNameForUpdate(ctx, line.Name)
			if errors.Is(err, domain.ErrNotFound) {
				outcome.UnknownNames = append(outcome.UnknownNames, line.Name)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to look up %q: %w", line.Name, err)
			}

			m.Restock(line.Quantity)
			if err := stores.Medicines().UpdateStock(ctx, m.ID, m.StockQuantity); err != nil {
				return fmt.Errorf("failed to restock %q: %w", line.Name, err)
			}
			outcome.Updated++
			outcome.UnitsAdded += line.Quantity
			outcome.Touch(m.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply delivery: %w", err)
	}

	s.finish(ctx, jobID, receiptInvoice, outcome)
	return outcome, nil
}

// ApplyImport upserts every row by name. Known medicines take the row's
// description, price and category, and their stock grows by the row's
// quantity. Rows that fail validation are rejected without aborting the job.
func (s *StockIntakeService) ApplyImport(ctx context.Context, jobID string, rows []domain.ImportRow) (*domain.IntakeOutcome, error) {
	if jobID == "" {
		return nil, domain.Invalid("job id is required")
	}

	var outcome *domain.IntakeOutcome
	err := s.scope.Execute(ctx, func(stores ports.LedgerStores) error {
		outcome = &domain.IntakeOutcome{}

		claimed, err := stores.Receipts().Claim(ctx, jobID, receiptImport)
		if err != nil {
			return fmt.Errorf("failed to claim receipt: %w", err)
		}
		if !claimed {
			outcome.Duplicate = true
			return nil
		}

		medicines := stores.Medicines()
		for _, row := range rows {
			m := row.Medicine
			if err := m.Validate(); err != nil {
				outcome.Rejected = append(outcome.Rejected, rejection(row.Row, err))
				continue
			}

			ok, err := medicines.CategoryExists(ctx, m.CategoryID)
			if err != nil {
				return fmt.Errorf("failed to check category: %w", err)
			}
			if !ok {
				outcome.Rejected = append(outcome.Rejected, rejection(row.Row, domain.NotFound("Category not found")))
				continue
			}

			existing, err := medicines.FindByNameForUpdate(ctx, m.Name)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				m.PrepareForStorage()
				if err := medicines.Create(ctx, m); err != nil {
					return fmt.Errorf("failed to create %q: %w", m.Name, err)
				}
				outcome.Created++
				outcome.UnitsAdded += m.StockQuantity
				outcome.Touch(m.ID)

			case err != nil:
				return fmt.Errorf("failed to look up %q: %w", m.Name, err)

			default:
				existing.Description = m.Description
				existing.Price = m.Price
				existing.CategoryID = m.CategoryID
				existing.Restock(m.StockQuantity)
				existing.UpdatedAt = s.now()
				if err := medicines.Save(ctx, existing); err != nil {
					return fmt.Errorf("failed to update %q: %w", m.Name, err)
				}
				outcome.Updated++
				outcome.UnitsAdded += m.StockQuantity
				outcome.Touch(existing.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply import: %w", err)
	}

	s.finish(ctx, jobID, receiptImport, outcome)
	return outcome, nil
}

func (s *StockIntakeService) finish(ctx context.Context, jobID, kind string, outcome *domain.IntakeOutcome) {
	if outcome.Duplicate {
		s.logger.WarnContext(ctx, "stock intake already applied",
			slog.String("job_id", jobID),
			slog.String("kind", kind))
		return
	}

	if s.cache != nil {
		for _, id := range outcome.Touched {
			if err := s.cache.InvalidateMedicine(ctx, id); err != nil {
				s.logger.WarnContext(ctx, "failed to invalidate medicine cache",
					slog.String("medicine_id", id.String()),
					slog.String("error", err.Error()))
			}
		}
	}

	s.logger.InfoContext(ctx, "stock intake applied",
		slog.String("job_id", jobID),
		slog.String("kind", kind),
		slog.Int("created", outcome.Created),
		slog.Int("updated", outcome.Updated),
		slog.Int("units_added", outcome.UnitsAdded))
}

func rejection(row int, err error) string {
	msg, ok := domain.Message(err)
	if !ok {
		msg = err.Error()
	}
	return fmt.Sprintf("row %d: %s", row, msg)
}
