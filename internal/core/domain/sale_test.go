package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

func TestNewSale(t *testing.T) {
	medicineID := uuid.New()
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	sale := domain.NewSale(medicineID, 5, decimal.NewFromInt(50), now)

	assert.NotEqual(t, uuid.Nil, sale.ID)
	assert.Equal(t, medicineID, sale.MedicineID)
	assert.Equal(t, 5, sale.UnitsSold)
	assert.Equal(t, "2024-03-09", sale.Date)
	assert.Equal(t, "14:05:07", sale.Time)
	assert.Equal(t, now, sale.CreatedAt)
}

func TestSaleRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.SaleRequest
		errorMsg string
	}{
		{
			name: "valid_request",
			req:  domain.SaleRequest{MedicineID: uuid.New(), UnitsSold: 2, TotalPrice: decimal.NewFromInt(20)},
		},
		{
			name:     "missing_medicine",
			req:      domain.SaleRequest{UnitsSold: 2, TotalPrice: decimal.NewFromInt(20)},
			errorMsg: "Missing required fields",
		},
		{
			name:     "missing_units",
			req:      domain.SaleRequest{MedicineID: uuid.New(), TotalPrice: decimal.NewFromInt(20)},
			errorMsg: "Missing required fields",
		},
		{
			name:     "missing_price",
			req:      domain.SaleRequest{MedicineID: uuid.New(), UnitsSold: 2},
			errorMsg: "Missing required fields",
		},
		{
			name:     "negative_units",
			req:      domain.SaleRequest{MedicineID: uuid.New(), UnitsSold: -2, TotalPrice: decimal.NewFromInt(20)},
			errorMsg: "no_of_units_sold must be positive",
		},
		{
			name:     "negative_price",
			req:      domain.SaleRequest{MedicineID: uuid.New(), UnitsSold: 2, TotalPrice: decimal.NewFromInt(-1)},
			errorMsg: "total_price must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.errorMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Equal(t, tt.errorMsg, err.Error())
		})
	}
}

func TestSaleRevision_Validate(t *testing.T) {
	valid := domain.SaleRevision{
		UnitsSold:  3,
		TotalPrice: decimal.NewFromInt(30),
		Date:       "2024-01-02",
		Time:       "09:30:00",
	}

	tests := []struct {
		name     string
		mutate   func(*domain.SaleRevision)
		errorMsg string
	}{
		{name: "valid_revision", mutate: func(*domain.SaleRevision) {}},
		{name: "missing_date", mutate: func(r *domain.SaleRevision) { r.Date = "" }, errorMsg: "Missing required fields"},
		{name: "missing_time", mutate: func(r *domain.SaleRevision) { r.Time = "" }, errorMsg: "Missing required fields"},
		{name: "zero_units", mutate: func(r *domain.SaleRevision) { r.UnitsSold = 0 }, errorMsg: "Missing required fields"},
		{name: "negative_units", mutate: func(r *domain.SaleRevision) { r.UnitsSold = -1 }, errorMsg: "no_of_units_sold must be positive"},
		{name: "malformed_date", mutate: func(r *domain.SaleRevision) { r.Date = "02/01/2024" }, errorMsg: "current_date must be formatted YYYY-MM-DD"},
		{name: "malformed_time", mutate: func(r *domain.SaleRevision) { r.Time = "9am" }, errorMsg: "current_time must be formatted HH:MM:SS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev := valid
			tt.mutate(&rev)

			err := rev.Validate()
			if tt.errorMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errorMsg, err.Error())
		})
	}
}

func TestSaleRevision_Apply(t *testing.T) {
	sale := &domain.Sale{ID: uuid.New(), UnitsSold: 5, TotalPrice: decimal.NewFromInt(50), Date: "2024-01-01", Time: "10:00:00"}
	rev := domain.SaleRevision{UnitsSold: 3, TotalPrice: decimal.NewFromInt(30), Date: "2024-01-02", Time: "11:00:00"}

	rev.Apply(sale)

	assert.Equal(t, 3, sale.UnitsSold)
	assert.True(t, sale.TotalPrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "2024-01-02", sale.Date)
	assert.Equal(t, "11:00:00", sale.Time)
}
