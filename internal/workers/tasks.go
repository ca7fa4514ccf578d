// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeMedicineImport   = "medicine:import"
	TypeInvoiceRestock   = "invoice:restock"
	TypeSalesReport      = "report:sales"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// Queue names, matching the defaults of ASYNQ_QUEUES.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// MedicineImportPayload is the payload of a medicine:import task
type MedicineImportPayload struct {
	JobID             string     `json:"job_id"`
	FilePath          string     `json:"file_path"`
	DefaultCategoryID *uuid.UUID `json:"default_category_id,omitempty"`
	RequestedBy       string     `json:"requested_by,omitempty"`
}

// InvoiceRestockPayload is the payload of an invoice:restock task
type InvoiceRestockPayload struct {
	JobID       string `json:"job_id"`
	FilePath    string `json:"file_path"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// SalesReportPayload is the payload of a report:sales task. A zero
// RequestedAt means the time the task runs.
type SalesReportPayload struct {
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// NewMedicineImportTask builds a medicine:import task. The job ID doubles as
// the asynq task ID so the status endpoint can look it up.
func NewMedicineImportTask(p MedicineImportPayload, retries int) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeMedicineImport, b,
		asynq.TaskID(p.JobID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(retries),
		asynq.Retention(24*time.Hour)), nil
}

// NewInvoiceRestockTask builds an invoice:restock task
func NewInvoiceRestockTask(p InvoiceRestockPayload, retries int) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice payload: %w", err)
	}
	return asynq.NewTask(TypeInvoiceRestock, b,
		asynq.TaskID(p.JobID),
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(retries),
		asynq.Retention(24*time.Hour)), nil
}

// NewSalesReportTask builds a report:sales task
func NewSalesReportTask(p SalesReportPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeSalesReport, b,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute)), nil
}

// NewCleanupTask builds a cleanup:temp_files task
func NewCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTempFiles, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(1))
}

// writeResult stores the task result for the inspector. Tasks built outside
// a server carry no result writer.
func writeResult(t *asynq.Task, logger *slog.Logger, result interface{}) {
	rw := t.ResultWriter()
	if rw == nil {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		logger.Warn("failed to marshal task result", slog.String("error", err.Error()))
		return
	}
	if _, err := rw.Write(b); err != nil {
		logger.Warn("failed to write task result",
			slog.String("task_id", rw.TaskID()),
			slog.String("error", err.Error()))
	}
}
