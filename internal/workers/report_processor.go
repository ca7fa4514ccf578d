// internal/workers/report_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pharmacy-be/internal/core/services"
)

// ReportArchiver uploads the current sales report
type ReportArchiver interface {
	ArchiveSalesReport(ctx context.Context, at time.Time) (*services.ArchivedReport, error)
}

// ReportProcessor handles scheduled sales reports
type ReportProcessor struct {
	reports ReportArchiver
	logger  *slog.Logger
	now     func() time.Time
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(reports ReportArchiver, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		reports: reports,
		logger:  logger.With(slog.String("processor", "report")),
		now:     time.Now,
	}
}

// ProcessSalesReport handles report:sales
func (p *ReportProcessor) ProcessSalesReport(ctx context.Context, t *asynq.Task) error {
	var payload SalesReportPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	at := payload.RequestedAt
	if at.IsZero() {
		at = p.now()
	}

	report, err := p.reports.ArchiveSalesReport(ctx, at)
	if err != nil {
		return fmt.Errorf("failed to archive sales report: %w", err)
	}

	writeResult(t, p.logger, report)

	p.logger.InfoContext(ctx, "sales report generated",
		slog.String("key", report.Key),
		slog.Int("sale_count", report.SaleCount))

	return nil
}
