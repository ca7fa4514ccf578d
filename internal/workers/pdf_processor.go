// internal/workers/pdf_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

var (
	invoiceLineRe = regexp.MustCompile(`^(\d+)\s*[xX×]\s+(.+?)\s+@\s*\$?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)$`)
	footerRe      = regexp.MustCompile(`(?i)^(SUBTOTAL|TOTAL|AMOUNT DUE)\b`)
)

// InvoiceLine is one delivered item on a supplier invoice
type InvoiceLine struct {
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RestockResult summarises an invoice:restock run
type RestockResult struct {
	LinesParsed    int      `json:"lines_parsed"`
	AlreadyApplied bool     `json:"already_applied,omitempty"`
	Restocked      int      `json:"restocked"`
	UnitsAdded     int      `json:"units_added"`
	UnknownNames   []string `json:"unknown_names,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// PDFProcessor restocks medicines from supplier invoice PDFs
type PDFProcessor struct {
	intake ports.StockIntakeService
	logger *slog.Logger
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(intake ports.StockIntakeService, logger *slog.Logger) *PDFProcessor {
	return &PDFProcessor{
		intake: intake,
		logger: logger.With(slog.String("processor", "pdf")),
	}
}

// ProcessInvoice handles invoice:restock
func (p *PDFProcessor) ProcessInvoice(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload InvoiceRestockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing invoice",
		slog.String("job_id", payload.JobID),
		slog.String("file_path", payload.FilePath))

	if _, err := os.Stat(payload.FilePath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("invoice file missing: %v: %w", err, asynq.SkipRetry)
	}

	lines, err := p.extractText(ctx, payload.FilePath)
	if err != nil {
		return err
	}

	result, err := p.Restock(ctx, payload.JobID, ParseInvoiceLines(lines))
	if err != nil {
		return err
	}
	result.ProcessingTime = time.Since(start).String()
	writeResult(t, p.logger, result)

	os.Remove(payload.FilePath)

	p.logger.InfoContext(ctx, "invoice processing completed",
		slog.String("job_id", payload.JobID),
		slog.Int("restocked", result.Restocked),
		slog.Int("units_added", result.UnitsAdded),
		slog.Int("unknown", len(result.UnknownNames)))

	return nil
}

// Restock credits the parsed invoice lines to stock as one job. Unknown
// medicines are collected, not fatal. A repository failure leaves stock
// untouched and is returned so the task is retried.
func (p *PDFProcessor) Restock(ctx context.Context, jobID string, lines []InvoiceLine) (*RestockResult, error) {
	delivery := make([]domain.DeliveryLine, len(lines))
	for i, line := range lines {
		delivery[i] = domain.DeliveryLine{Name: line.Name, Quantity: line.Quantity}
	}

	outcome, err := p.intake.ApplyDelivery(ctx, jobID, delivery)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("invalid invoice job: %v: %w", err, asynq.SkipRetry)
		}
		return nil, err
	}

	return &RestockResult{
		LinesParsed:    len(lines),
		AlreadyApplied: outcome.Duplicate,
		Restocked:      outcome.Updated,
		UnitsAdded:     outcome.UnitsAdded,
		UnknownNames:   outcome.UnknownNames,
	}, nil
}

func (p *PDFProcessor) extractText(ctx context.Context, filePath string) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %v: %w", err, asynq.SkipRetry)
	}
	defer f.Close()

	var textLines []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.WarnContext(ctx, "failed to extract text from page",
				slog.Int("page", pageNum),
				slog.String("error", err.Error()))
			continue
		}

		textLines = append(textLines, strings.Split(text, "\n")...)
	}

	return textLines, nil
}

// ParseInvoiceLines picks the `<qty> x <name> @ <unit price>` lines out of
// extracted invoice text, stopping at the totals footer.
func ParseInvoiceLines(lines []string) []InvoiceLine {
	var items []InvoiceLine

	for _, raw := range lines {
		line := strings.Join(strings.Fields(raw), " ")
		if line == "" {
			continue
		}
		if footerRe.MatchString(line) {
			break
		}

		match := invoiceLineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		qty, err := strconv.Atoi(match[1])
		if err != nil || qty <= 0 {
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(match[3], ",", ""))
		if err != nil {
			continue
		}

		items = append(items, InvoiceLine{
			Quantity:  qty,
			Name:      strings.TrimSpace(match[2]),
			UnitPrice: price,
		})
	}

	return items
}
