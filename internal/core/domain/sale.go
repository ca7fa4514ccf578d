// internal/core/domain/sale.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Layouts used for the date and time stamped on a sale.
const (
	SaleDateLayout = "2006-01-02"
	SaleTimeLayout = "15:04:05"
)

// Sale records units of one medicine sold. Its units are reflected in the
// medicine's stock for as long as the sale exists.
type Sale struct {
	ID         uuid.UUID       `json:"id"`
	MedicineID uuid.UUID       `json:"medicine_id"`
	UnitsSold  int             `json:"no_of_units_sold"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Date       string          `json:"current_date"`
	Time       string          `json:"current_time"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewSale builds a sale stamped with the local date and time of now.
func NewSale(medicineID uuid.UUID, units int, totalPrice decimal.Decimal, now time.Time) *Sale {
	local := now.Local()
	return &Sale{
		ID:         uuid.New(),
		MedicineID: medicineID,
		UnitsSold:  units,
		TotalPrice: totalPrice,
		Date:       local.Format(SaleDateLayout),
		Time:       local.Format(SaleTimeLayout),
		CreatedAt:  now,
	}
}

// SaleRequest holds the inputs of a new sale.
type SaleRequest struct {
	MedicineID uuid.UUID
	UnitsSold  int
	TotalPrice decimal.Decimal
}

// Validate checks that all fields are present and positive.
func (r SaleRequest) Validate() error {
	if r.MedicineID == uuid.Nil || r.UnitsSold == 0 || r.TotalPrice.IsZero() {
		return Invalid("Missing required fields")
	}
	if r.UnitsSold < 0 {
		return Invalid("no_of_units_sold must be positive")
	}
	if r.TotalPrice.IsNegative() {
		return Invalid("total_price must be positive")
	}
	return nil
}

// SaleRevision replaces the editable fields of an existing sale.
type SaleRevision struct {
	UnitsSold  int
	TotalPrice decimal.Decimal
	Date       string
	Time       string
}

// Validate checks that all fields are present and well formed.
func (r SaleRevision) Validate() error {
	if r.UnitsSold == 0 || r.TotalPrice.IsZero() || r.Date == "" || r.Time == "" {
		return Invalid("Missing required fields")
	}
	if r.UnitsSold < 0 {
		return Invalid("no_of_units_sold must be positive")
	}
	if r.TotalPrice.IsNegative() {
		return Invalid("total_price must be positive")
	}
	if _, err := time.Parse(SaleDateLayout, r.Date); err != nil {
		return Invalid("current_date must be formatted YYYY-MM-DD")
	}
	if _, err := time.Parse(SaleTimeLayout, r.Time); err != nil {
		return Invalid("current_time must be formatted HH:MM:SS")
	}
	return nil
}

// Apply copies the revision onto s.
func (r SaleRevision) Apply(s *Sale) {
	s.UnitsSold = r.UnitsSold
	s.TotalPrice = r.TotalPrice
	s.Date = r.Date
	s.Time = r.Time
}
