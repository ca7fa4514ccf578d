// internal/workers/excel_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// MedicineImportColumns are the expected columns of an import sheet, in order.
var MedicineImportColumns = []string{"Name", "Description", "Price", "Stock Quantity", "Category ID"}

// ImportResult summarises a medicine:import run
type ImportResult struct {
	RowsRead       int      `json:"rows_read"`
	AlreadyApplied bool     `json:"already_applied,omitempty"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// ExcelProcessor imports medicine stock sheets
type ExcelProcessor struct {
	intake ports.StockIntakeService
	logger *slog.Logger
}

// NewExcelProcessor creates a new Excel processor
func NewExcelProcessor(intake ports.StockIntakeService, logger *slog.Logger) *ExcelProcessor {
	return &ExcelProcessor{
		intake: intake,
		logger: logger.With(slog.String("processor", "excel")),
	}
}

// ProcessImport handles medicine:import. The sheet is parsed first and then
// upserted by name as one job; rows that fail to parse or validate are
// skipped and reported.
func (p *ExcelProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload MedicineImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing medicine import",
		slog.String("job_id", payload.JobID),
		slog.String("file_path", payload.FilePath))

	if _, err := os.Stat(payload.FilePath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("import file missing: %v: %w", err, asynq.SkipRetry)
	}

	file, err := xlsx.OpenFile(payload.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(file.Sheets) == 0 {
		os.Remove(payload.FilePath)
		return fmt.Errorf("workbook has no sheets: %w", asynq.SkipRetry)
	}

	result := &ImportResult{}
	var rows []domain.ImportRow
	rowIdx := 0

	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		rowIdx++
		// Skip header row
		if rowIdx == 1 {
			return nil
		}

		m, err := ParseMedicineRow(r, payload.DefaultCategoryID)
		if err != nil {
			if errors.Is(err, errBlankRow) {
				return nil
			}
			result.RowsRead++
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowIdx, err))
			return nil
		}
		result.RowsRead++
		rows = append(rows, domain.ImportRow{Row: rowIdx, Medicine: m})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read import sheet: %w", err)
	}

	outcome, err := p.intake.ApplyImport(ctx, payload.JobID, rows)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("invalid import job: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to import medicines: %w", err)
	}

	result.AlreadyApplied = outcome.Duplicate
	result.Created = outcome.Created
	result.Updated = outcome.Updated
	result.Skipped += len(outcome.Rejected)
	result.Errors = append(result.Errors, outcome.Rejected...)

	result.ProcessingTime = time.Since(start).String()
	writeResult(t, p.logger, result)

	os.Remove(payload.FilePath)

	p.logger.InfoContext(ctx, "medicine import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped))

	return nil
}

var errBlankRow = errors.New("blank row")

// ParseMedicineRow reads one row in MedicineImportColumns order. An empty
// category cell falls back to defaultCategory.
func ParseMedicineRow(r *xlsx.Row, defaultCategory *uuid.UUID) (*domain.Medicine, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	name := get(0)
	if name == "" && get(1) == "" && get(2) == "" {
		return nil, errBlankRow
	}
	if name == "" {
		return nil, errors.New("name is required")
	}

	price, err := decimal.NewFromString(strings.TrimPrefix(get(2), "$"))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", get(2))
	}

	stock := 0
	if s := get(3); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil {
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int(f)) {
				return nil, fmt.Errorf("invalid stock quantity %q", s)
			}
			stock = int(f)
		}
	}

	var categoryID uuid.UUID
	switch s := get(4); {
	case s != "":
		categoryID, err = uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", s)
		}
	case defaultCategory != nil:
		categoryID = *defaultCategory
	default:
		return nil, errors.New("category id is required")
	}

	return &domain.Medicine{
		Name:          name,
		Description:   get(1),
		Price:         price.Round(2),
		StockQuantity: stock,
		CategoryID:    categoryID,
	}, nil
}
