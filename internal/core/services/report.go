// internal/core/services/report.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	// SalesReportFilename is the download name of the sales workbook.
	SalesReportFilename = "sales_report.xlsx"
	// SpreadsheetContentType is the MIME type of xlsx files.
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	salesReportPrefix = "reports/sales"
)

// SalesReportHeaders are the columns of the sales workbook, in order.
var SalesReportHeaders = []string{"Medicine ID", "No of Units Sold", "Total Price", "Date", "Time"}

// BuildSalesWorkbook renders sales as a single-sheet xlsx workbook with one
// row per sale, in the order given.
func BuildSalesWorkbook(sales []*domain.Sale) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range SalesReportHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, sale := range sales {
		row := sheet.AddRow()
		row.AddCell().SetString(sale.MedicineID.String())
		row.AddCell().SetInt(sale.UnitsSold)
		row.AddCell().SetFloat(sale.TotalPrice.InexactFloat64())
		row.AddCell().SetString(sale.Date)
		row.AddCell().SetString(sale.Time)
	}

	sheet.SetColWidth(1, 1, 38)
	sheet.SetColWidth(2, len(SalesReportHeaders), 16)

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

// ArchivedReport describes a sales report uploaded to object storage.
type ArchivedReport struct {
	Key         string    `json:"key"`
	Location    string    `json:"location"`
	DownloadURL string    `json:"download_url,omitempty"`
	SaleCount   int       `json:"sale_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReportService archives sales reports to object storage
type ReportService struct {
	ledger  ports.LedgerService
	storage ports.ObjectStorage
	linkTTL time.Duration
	logger  *slog.Logger
}

func NewReportService(ledger ports.LedgerService, storage ports.ObjectStorage, linkTTL time.Duration, logger *slog.Logger) *ReportService {
	return &ReportService{
		ledger:  ledger,
		storage: storage,
		linkTTL: linkTTL,
		logger:  logger.With(slog.String("service", "report")),
	}
}

// ArchiveSalesReport builds the current sales workbook and uploads it under
// a date-partitioned key.
func (s *ReportService) ArchiveSalesReport(ctx context.Context, at time.Time) (*ArchivedReport, error) {
	sales, err := s.ledger.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	data, err := BuildSalesWorkbook(sales)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales workbook: %w", err)
	}

	key := SalesReportKey(at)
	location, err := s.storage.Upload(ctx, key, bytes.NewReader(data), SpreadsheetContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload sales report: %w", err)
	}

	report := &ArchivedReport{
		Key:         key,
		Location:    location,
		SaleCount:   len(sales),
		GeneratedAt: at,
	}

	if s.linkTTL > 0 {
		url, err := s.storage.GetPresignedURL(ctx, key, s.linkTTL)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to presign sales report",
				slog.String("key", key),
				slog.String("error", err.Error()))
		} else {
			report.DownloadURL = url
		}
	}

	s.logger.InfoContext(ctx, "sales report archived",
		slog.String("key", key),
		slog.Int("sale_count", len(sales)),
		slog.Int("size_bytes", len(data)))

	return report, nil
}

// SalesReportKey returns the storage key of a report generated at t.
func SalesReportKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%s/sales_report_%s.xlsx",
		salesReportPrefix, t.Format("2006/01/02"), t.Format("20060102T150405Z"))
}
