// internal/workers/excel_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/internal/workers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Medicines")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, col := range workers.MedicineImportColumns {
		header.AddCell().SetString(col)
	}
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, file.Save(path))
	return path
}

func importTask(t *testing.T, payload workers.MedicineImportPayload) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(workers.TypeMedicineImport, b)
}

func TestExcelProcessor_ProcessImport(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()
	defaultCategory := uuid.New()

	newLedger := func(medicines ...*domain.Medicine) *helpers.MemoryLedger {
		ledger := helpers.NewMemoryLedger(medicines...)
		ledger.AddCategory(categoryID)
		ledger.AddCategory(defaultCategory)
		return ledger
	}

	t.Run("upserts_rows_and_skips_bad_ones", func(t *testing.T) {
		aspirin := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = "Aspirin"
			m.StockQuantity = 7
			m.CategoryID = categoryID
		})
		ledger := newLedger(aspirin)

		path := writeWorkbook(t, [][]string{
			{"Paracetamol 500mg", "Pain relief", "4.50", "100", categoryID.String()},
			{"Ibuprofen 200mg", "Anti-inflammatory", "$3.20", "40", ""},
			{"Broken", "Bad price", "abc", "1", categoryID.String()},
			{"", "", "", "", ""},
			{"aspirin", "Pain relief", "2.10", "5", categoryID.String()},
			{"No description", "", "1.00", "1", categoryID.String()},
			{"Orphan", "Unknown category", "1.00", "1", uuid.New().String()},
		})

		processor := workers.NewExcelProcessor(services.NewStockIntakeService(ledger, nil, helpers.TestLogger()), helpers.TestLogger())
		err := processor.ProcessImport(ctx, importTask(t, workers.MedicineImportPayload{
			JobID:             "job-1",
			FilePath:          path,
			DefaultCategoryID: &defaultCategory,
		}))
		require.NoError(t, err)

		paracetamol, ok := ledger.MedicineByName("Paracetamol 500mg")
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("4.50").Equal(paracetamol.Price))
		assert.Equal(t, 100, paracetamol.StockQuantity)
		assert.Equal(t, categoryID, paracetamol.CategoryID)

		ibuprofen, ok := ledger.MedicineByName("Ibuprofen 200mg")
		require.True(t, ok)
		assert.Equal(t, defaultCategory, ibuprofen.CategoryID)
		assert.True(t, decimal.RequireFromString("3.20").Equal(ibuprofen.Price))

		assert.Equal(t, 12, ledger.Stock(aspirin.ID))
		_, ok = ledger.MedicineByName("Orphan")
		assert.False(t, ok)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "import file should be removed")
	})

	t.Run("retry_after_partial_failure_credits_once", func(t *testing.T) {
		aspirin := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = "Aspirin"
			m.StockQuantity = 10
			m.CategoryID = categoryID
		})
		ledger := newLedger(aspirin)

		failures := 1
		ledger.StockWriteFault = func(m domain.Medicine) error {
			if m.Name == "Loratadine" && failures > 0 {
				failures--
				return errors.New("connection reset")
			}
			return nil
		}

		path := writeWorkbook(t, [][]string{
			{"Aspirin", "Pain relief", "2.10", "5", categoryID.String()},
			{"Loratadine", "Allergy relief", "9.99", "30", categoryID.String()},
		})
		payload := workers.MedicineImportPayload{JobID: "job-retry", FilePath: path}
		processor := workers.NewExcelProcessor(services.NewStockIntakeService(ledger, nil, helpers.TestLogger()), helpers.TestLogger())

		err := processor.ProcessImport(ctx, importTask(t, payload))
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
		assert.Equal(t, 10, ledger.Stock(aspirin.ID))

		_, statErr := os.Stat(path)
		require.NoError(t, statErr, "file is kept for the retry")

		require.NoError(t, processor.ProcessImport(ctx, importTask(t, payload)))
		assert.Equal(t, 15, ledger.Stock(aspirin.ID))
		loratadine, ok := ledger.MedicineByName("Loratadine")
		require.True(t, ok)
		assert.Equal(t, 30, loratadine.StockQuantity)
	})

	t.Run("redelivered_job_is_not_applied_twice", func(t *testing.T) {
		aspirin := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = "Aspirin"
			m.StockQuantity = 10
			m.CategoryID = categoryID
		})
		ledger := newLedger(aspirin)
		processor := workers.NewExcelProcessor(services.NewStockIntakeService(ledger, nil, helpers.TestLogger()), helpers.TestLogger())

		for i := 0; i < 2; i++ {
			path := writeWorkbook(t, [][]string{
				{"Aspirin", "Pain relief", "2.10", "5", categoryID.String()},
			})
			require.NoError(t, processor.ProcessImport(ctx, importTask(t, workers.MedicineImportPayload{
				JobID: "job-5", FilePath: path,
			})))
		}

		assert.Equal(t, 15, ledger.Stock(aspirin.ID))
		assert.Equal(t, 1, ledger.Receipts())
	})

	t.Run("intake_failure_is_retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		intake := mocks.NewMockStockIntakeService(ctrl)

		path := writeWorkbook(t, [][]string{
			{"Paracetamol 500mg", "Pain relief", "4.50", "100", categoryID.String()},
		})
		intake.EXPECT().ApplyImport(gomock.Any(), "job-3", gomock.Len(1)).Return(nil, errors.New("connection reset"))

		processor := workers.NewExcelProcessor(intake, helpers.TestLogger())
		err := processor.ProcessImport(ctx, importTask(t, workers.MedicineImportPayload{
			JobID: "job-3", FilePath: path,
		}))
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("missing_file_skips_retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		processor := workers.NewExcelProcessor(mocks.NewMockStockIntakeService(ctrl), helpers.TestLogger())

		err := processor.ProcessImport(ctx, importTask(t, workers.MedicineImportPayload{
			JobID: "job-4", FilePath: filepath.Join(t.TempDir(), "missing.xlsx"),
		}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
	})
}
