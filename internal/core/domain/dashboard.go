// internal/core/domain/dashboard.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates stock and sales figures across all medicines.
type DashboardSummary struct {
	MedicineCount     int64             `json:"medicine_count"`
	UnitsInStock      int64             `json:"units_in_stock"`
	LowStockCount     int64             `json:"low_stock_count"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	SaleCount         int64             `json:"sale_count"`
	UnitsSold         int64             `json:"units_sold"`
	Revenue           decimal.Decimal   `json:"revenue"`
	TopMedicines      []MedicineSummary `json:"top_medicines"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// MedicineSummary is one row of the best sellers list.
type MedicineSummary struct {
	MedicineID    uuid.UUID       `json:"medicine_id"`
	Name          string          `json:"name"`
	StockQuantity int             `json:"stock_quantity"`
	UnitsSold     int64           `json:"units_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
}
