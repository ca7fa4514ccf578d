// internal/adapters/db/dashboard_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// dashboardRepository implements ports.DashboardRepository
type dashboardRepository struct {
	db     querier
	logger *slog.Logger
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *Database, logger *slog.Logger) ports.DashboardRepository {
	return &dashboardRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "dashboard")),
	}
}

// Summary aggregates stock and sales figures
func (r *dashboardRepository) Summary(ctx context.Context, lowStockThreshold, topN int) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		LowStockThreshold: lowStockThreshold,
		TopMedicines:      []domain.MedicineSummary{},
		GeneratedAt:       time.Now(),
	}

	stockQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(stock_quantity), 0),
			COUNT(*) FILTER (WHERE stock_quantity <= $1)
		FROM medicines`

	err := r.db.QueryRow(ctx, stockQuery, lowStockThreshold).Scan(
		&summary.MedicineCount,
		&summary.UnitsInStock,
		&summary.LowStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock summary: %w", err)
	}

	salesQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(units_sold), 0),
			COALESCE(SUM(total_price), 0)
		FROM sales`

	err = r.db.QueryRow(ctx, salesQuery).Scan(
		&summary.SaleCount,
		&summary.UnitsSold,
		&summary.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales summary: %w", err)
	}

	if topN <= 0 {
		return summary, nil
	}

	topQuery := `
		SELECT
			m.id, m.name, m.stock_quantity,
			SUM(s.units_sold) AS units_sold,
			SUM(s.total_price) AS revenue
		FROM sales s
		JOIN medicines m ON m.id = s.medicine_id
		GROUP BY m.id, m.name, m.stock_quantity
		ORDER BY units_sold DESC, m.name ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, topQuery, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to query top medicines: %w", err)
	}

	top, err := ScanMany(rows, func(row pgx.Row) (*domain.MedicineSummary, error) {
		var m domain.MedicineSummary
		if err := row.Scan(&m.MedicineID, &m.Name, &m.StockQuantity, &m.UnitsSold, &m.Revenue); err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan top medicines: %w", err)
	}

	for _, m := range top {
		summary.TopMedicines = append(summary.TopMedicines, *m)
	}

	r.logger.DebugContext(ctx, "dashboard summary computed",
		slog.Int64("medicine_count", summary.MedicineCount),
		slog.Int64("sale_count", summary.SaleCount))

	return summary, nil
}
