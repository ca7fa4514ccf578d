// internal/adapters/db/repository_test.go
package db

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// fakeRow scans fixed values, or fails with err.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

// fakeQuerier records statements and replays canned results.
type fakeQuerier struct {
	row     fakeRow
	tag     pgconn.CommandTag
	execErr error

	statements []string
	args       [][]any
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	q.record(sql, args)
	return nil, errors.New("query not supported by fake")
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	q.record(sql, args)
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	q.record(sql, args)
	return q.tag, q.execErr
}

func (q *fakeQuerier) record(sql string, args []any) {
	q.statements = append(q.statements, sql)
	q.args = append(q.args, args)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func medicineRow(m domain.Medicine) fakeRow {
	return fakeRow{values: []any{
		m.ID, m.Name, m.Description, m.Price,
		m.StockQuantity, m.CategoryID, m.CreatedAt, m.UpdatedAt,
	}}
}

func sampleMedicine() domain.Medicine {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.Medicine{
		ID:            uuid.New(),
		Name:          "Paracetamol",
		Description:   "Pain relief",
		Price:         decimal.RequireFromString("4.50"),
		StockQuantity: 10,
		CategoryID:    uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestMedicineRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	want := sampleMedicine()

	t.Run("found", func(t *testing.T) {
		q := &fakeQuerier{row: medicineRow(want)}
		repo := newMedicineRepository(q, discardLogger())

		got, err := repo.GetByID(ctx, want.ID)

		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, 10, got.StockQuantity)
		assert.True(t, want.Price.Equal(got.Price))
		assert.Equal(t, []any{want.ID}, q.args[0])
	})

	t.Run("missing_medicine", func(t *testing.T) {
		q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
		repo := newMedicineRepository(q, discardLogger())

		_, err := repo.GetByID(ctx, uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotFound)
		msg, _ := domain.Message(err)
		assert.Equal(t, "Medicine not found", msg)
	})
}

func TestMedicineRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		q := &fakeQuerier{tag: pgconn.NewCommandTag("DELETE 1")}
		repo := newMedicineRepository(q, discardLogger())

		assert.NoError(t, repo.Delete(ctx, uuid.New()))
	})

	t.Run("no_row_is_not_found", func(t *testing.T) {
		q := &fakeQuerier{tag: pgconn.NewCommandTag("DELETE 0")}
		repo := newMedicineRepository(q, discardLogger())

		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), domain.ErrNotFound)
	})
}

func TestMedicineRepository_AdjustStock(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("returns_new_stock", func(t *testing.T) {
		q := &fakeQuerier{row: fakeRow{values: []any{15}}}
		repo := newMedicineRepository(q, discardLogger())

		stock, err := repo.AdjustStock(ctx, id, 5)

		require.NoError(t, err)
		assert.Equal(t, 15, stock)
		assert.Contains(t, q.statements[0], "stock_quantity = stock_quantity + $2")
		assert.Equal(t, id, q.args[0][0])
		assert.Equal(t, 5, q.args[0][1])
	})

	t.Run("check_violation_is_insufficient_stock", func(t *testing.T) {
		q := &fakeQuerier{row: fakeRow{err: &pgconn.PgError{
			Code:           pgCheckViolation,
			ConstraintName: "medicines_stock_quantity_check",
		}}}
		repo := newMedicineRepository(q, discardLogger())

		_, err := repo.AdjustStock(ctx, id, -50)

		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})
}

func TestBuildMedicineList(t *testing.T) {
	categoryID := uuid.New()
	maxStock := 5

	tests := []struct {
		name      string
		filter    domain.MedicineFilter
		wantWhere string
		wantArgs  int
	}{
		{
			name:     "no_filters",
			filter:   domain.MedicineFilter{Page: 1, PageSize: 20},
			wantArgs: 0,
		},
		{
			name:      "search_only",
			filter:    domain.MedicineFilter{Search: "para", Page: 1, PageSize: 20},
			wantWhere: "WHERE name ILIKE $1",
			wantArgs:  1,
		},
		{
			name: "all_filters",
			filter: domain.MedicineFilter{
				Search:     "para",
				CategoryID: &categoryID,
				MaxStock:   &maxStock,
				Page:       2,
				PageSize:   10,
			},
			wantWhere: "WHERE name ILIKE $1 AND category_id = $2 AND stock_quantity <= $3",
			wantArgs:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildMedicineList(tt.filter)

			require.NoError(t, err)
			assert.Contains(t, sql, "FROM medicines")
			assert.Contains(t, sql, "ORDER BY name ASC, id ASC")
			assert.Len(t, args, tt.wantArgs)
			if tt.wantWhere != "" {
				assert.Contains(t, sql, tt.wantWhere)
			} else {
				assert.NotContains(t, sql, "WHERE")
			}
		})
	}
}

func TestBuildMedicineList_Paging(t *testing.T) {
	sql, _, err := buildMedicineList(domain.MedicineFilter{Page: 3, PageSize: 10})

	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
}

func TestBuildMedicineUpdate(t *testing.T) {
	id := uuid.New()
	name := "  Ibuprofen "
	price := decimal.RequireFromString("7.25")
	now := time.Now()

	sql, args, err := buildMedicineUpdate(id, domain.MedicineUpdate{Name: &name, Price: &price}, now)

	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE medicines SET name = $1, price = $2, updated_at = $3 WHERE id = $4 RETURNING "+medicineColumns,
		sql)
	require.Len(t, args, 4)
	assert.Equal(t, "Ibuprofen", args[0])
	assert.Equal(t, price, args[1])
	assert.Equal(t, now, args[2])
	assert.Equal(t, id.String(), args[3])
}

func TestLedgerStores(t *testing.T) {
	ctx := context.Background()

	t.Run("medicine_lock_uses_for_update", func(t *testing.T) {
		m := sampleMedicine()
		q := &fakeQuerier{row: medicineRow(m)}

		got, err := newLedgerStores(q).Medicines().GetForUpdate(ctx, m.ID)

		require.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
		assert.Contains(t, q.statements[0], "FOR UPDATE")
	})

	t.Run("missing_sale", func(t *testing.T) {
		q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

		_, err := newLedgerStores(q).Sales().GetForUpdate(ctx, uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotFound)
		msg, _ := domain.Message(err)
		assert.Equal(t, "Sale not found", msg)
	})

	t.Run("sale_scan", func(t *testing.T) {
		sale := domain.NewSale(uuid.New(), 3, decimal.NewFromInt(30), time.Now())
		q := &fakeQuerier{row: fakeRow{values: []any{
			sale.ID, sale.MedicineID, sale.UnitsSold, sale.TotalPrice,
			sale.Date, sale.Time, sale.CreatedAt,
		}}}

		got, err := newLedgerStores(q).Sales().GetForUpdate(ctx, sale.ID)

		require.NoError(t, err)
		assert.Equal(t, 3, got.UnitsSold)
		assert.Equal(t, sale.Date, got.Date)
		assert.Contains(t, q.statements[0], "FOR UPDATE")
	})

	t.Run("update_stock_on_missing_row", func(t *testing.T) {
		q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}

		err := newLedgerStores(q).Medicines().UpdateStock(ctx, uuid.New(), 4)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("sale_update_writes_all_fields", func(t *testing.T) {
		q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
		sale := domain.NewSale(uuid.New(), 2, decimal.NewFromInt(20), time.Now())

		require.NoError(t, newLedgerStores(q).Sales().Update(ctx, sale))

		assert.Equal(t, []any{sale.ID, 2, sale.TotalPrice, sale.Date, sale.Time}, q.args[0])
	})
}
