// internal/core/domain/medicine.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is a saleable product tracked by stock quantity.
type Medicine struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    uuid.UUID       `json:"category_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks the fields required to create a medicine.
func (m *Medicine) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" || m.Description == "" || m.CategoryID == uuid.Nil {
		return Invalid("Missing required fields")
	}
	if !m.Price.IsPositive() {
		return Invalid("price must be positive")
	}
	if m.StockQuantity < 0 {
		return Invalid("stock_quantity cannot be negative")
	}
	return nil
}

// PrepareForStorage assigns an identifier and timestamps.
func (m *Medicine) PrepareForStorage() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Withdraw removes units from stock, refusing to go below zero.
func (m *Medicine) Withdraw(units int) error {
	remaining := m.StockQuantity - units
	if remaining < 0 {
		return InsufficientStock()
	}
	m.StockQuantity = remaining
	return nil
}

// Rebook puts back a previous withdrawal of oldUnits and withdraws newUnits
// in its place. Stock is left untouched when the result would be negative.
func (m *Medicine) Rebook(oldUnits, newUnits int) error {
	adjusted := m.StockQuantity + oldUnits - newUnits
	if adjusted < 0 {
		return InsufficientStock()
	}
	m.StockQuantity = adjusted
	return nil
}

// Restock adds units back to stock.
func (m *Medicine) Restock(units int) {
	m.StockQuantity += units
}

// MedicineUpdate is a partial update. Nil fields are left unchanged.
type MedicineUpdate struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u MedicineUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.StockQuantity == nil && u.CategoryID == nil
}

// Validate checks the supplied fields.
func (u MedicineUpdate) Validate() error {
	if u.IsEmpty() {
		return Invalid("No update fields provided")
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return Invalid("name cannot be empty")
	}
	if u.Price != nil && !u.Price.IsPositive() {
		return Invalid("price must be positive")
	}
	if u.StockQuantity != nil && *u.StockQuantity < 0 {
		return Invalid("stock_quantity cannot be negative")
	}
	if u.CategoryID != nil && *u.CategoryID == uuid.Nil {
		return Invalid("category_id is invalid")
	}
	return nil
}

// Apply copies the supplied fields onto m.
func (u MedicineUpdate) Apply(m *Medicine) {
	if u.Name != nil {
		m.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.StockQuantity != nil {
		m.StockQuantity = *u.StockQuantity
	}
	if u.CategoryID != nil {
		m.CategoryID = *u.CategoryID
	}
	m.UpdatedAt = time.Now()
}

// MedicineFilter narrows medicine listings.
type MedicineFilter struct {
	Search     string
	CategoryID *uuid.UUID
	MaxStock   *int
	Page       int
	PageSize   int
}

// Normalize clamps paging values to sane bounds.
func (f *MedicineFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}
