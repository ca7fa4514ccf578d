// internal/handlers/import.go
package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
	"github.com/ammerola/pharmacy-be/internal/workers"
)

const importDedupeTTL = 24 * time.Hour

// TaskEnqueuer is the part of *asynq.Client used to queue imports
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskInspector is the part of *asynq.Inspector used to report job status
type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// ImportConfig bounds uploaded files
type ImportConfig struct {
	UploadDir      string
	ExcelMaxBytes  int64
	PDFMaxBytes    int64
	MaxTaskRetries int
}

// ImportHandler handles import operations
type ImportHandler struct {
	responder
	client    TaskEnqueuer
	inspector TaskInspector
	cache     ports.CacheRepository
	config    ImportConfig
}

// NewImportHandler creates a new import handler
func NewImportHandler(client TaskEnqueuer, inspector TaskInspector, cache ports.CacheRepository, cfg ImportConfig, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		responder: responder{logger: logger.With(slog.String("handler", "import"))},
		client:    client,
		inspector: inspector,
		cache:     cache,
		config:    cfg,
	}
}

// ImportJobResponse is returned when an import is queued
type ImportJobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ImportStatusResponse reports the state of a queued import
type ImportStatusResponse struct {
	JobID       string          `json:"job_id"`
	Type        string          `json:"type"`
	Queue       string          `json:"queue"`
	State       string          `json:"state"`
	Retried     int             `json:"retried"`
	MaxRetry    int             `json:"max_retry"`
	LastError   string          `json:"last_error,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// ImportMedicines handles POST /import/medicines
func (h *ImportHandler) ImportMedicines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	upload, err := h.receive(w, r, ".xlsx", h.config.ExcelMaxBytes)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	payload := workers.MedicineImportPayload{
		JobID:       upload.jobID,
		FilePath:    upload.path,
		RequestedBy: requester(ctx),
	}
	if category := r.FormValue("category_id"); category != "" {
		id, err := uuid.Parse(category)
		if err != nil {
			h.discard(ctx, upload)
			h.respondError(ctx, w, domain.Invalid("Invalid category ID format"))
			return
		}
		payload.DefaultCategoryID = &id
	}

	task, err := workers.NewMedicineImportTask(payload, h.config.MaxTaskRetries)
	if err != nil {
		h.discard(ctx, upload)
		h.respondError(ctx, w, err)
		return
	}

	h.enqueue(w, r, upload, task, "Medicine import has been queued for processing")
}

// ImportInvoice handles POST /import/invoice
func (h *ImportHandler) ImportInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	upload, err := h.receive(w, r, ".pdf", h.config.PDFMaxBytes)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	task, err := workers.NewInvoiceRestockTask(workers.InvoiceRestockPayload{
		JobID:       upload.jobID,
		FilePath:    upload.path,
		RequestedBy: requester(ctx),
	}, h.config.MaxTaskRetries)
	if err != nil {
		h.discard(ctx, upload)
		h.respondError(ctx, w, err)
		return
	}

	h.enqueue(w, r, upload, task, "Invoice has been queued for restocking")
}

// ImportStatus handles GET /import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	if _, err := uuid.Parse(jobID); err != nil {
		h.respondError(ctx, w, domain.Invalid("Invalid job ID format"))
		return
	}

	for _, queue := range []string{workers.QueueDefault, workers.QueueCritical} {
		info, err := h.inspector.GetTaskInfo(queue, jobID)
		if err != nil {
			if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
				continue
			}
			h.respondError(ctx, w, fmt.Errorf("failed to get job status: %w", err))
			return
		}

		status := ImportStatusResponse{
			JobID:     info.ID,
			Type:      info.Type,
			Queue:     info.Queue,
			State:     info.State.String(),
			Retried:   info.Retried,
			MaxRetry:  info.MaxRetry,
			LastError: info.LastErr,
		}
		if !info.CompletedAt.IsZero() {
			completed := info.CompletedAt
			status.CompletedAt = &completed
		}
		if json.Valid(info.Result) {
			status.Result = info.Result
		}

		h.respondJSON(w, http.StatusOK, status)
		return
	}

	h.respondError(ctx, w, domain.NotFound("Job not found"))
}

type upload struct {
	jobID    string
	path     string
	dedupeID string
}

// receive stores the multipart "file" field in the upload directory and
// claims its content hash so the same file is not queued twice.
func (h *ImportHandler) receive(w http.ResponseWriter, r *http.Request, ext string, maxBytes int64) (*upload, error) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.Invalid(fmt.Sprintf("File exceeds %d MB", maxBytes>>20))
		}
		return nil, domain.Invalid("Failed to parse form data")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, domain.Invalid("File is required")
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ext) {
		return nil, domain.Invalid(fmt.Sprintf("Only %s files are allowed", ext))
	}

	if err := os.MkdirAll(h.config.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	jobID := uuid.New().String()
	path := filepath.Join(h.config.UploadDir, jobID+ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	hash := sha256.New()
	_, err = io.Copy(io.MultiWriter(dst, hash), file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	u := &upload{
		jobID:    jobID,
		path:     path,
		dedupeID: redis_a.BuildKey(redis_a.PrefixImport, hex.EncodeToString(hash.Sum(nil))),
	}

	claimed, err := h.cache.SetNX(ctx, u.dedupeID, jobID, importDedupeTTL)
	switch {
	case err != nil:
		h.logger.WarnContext(ctx, "failed to check for duplicate import",
			slog.String("error", err.Error()))
		u.dedupeID = ""
	case !claimed:
		os.Remove(path)
		return nil, domain.Conflict("File already queued for import")
	}

	return u, nil
}

func (h *ImportHandler) enqueue(w http.ResponseWriter, r *http.Request, u *upload, task *asynq.Task, message string) {
	ctx := r.Context()

	info, err := h.client.EnqueueContext(ctx, task)
	if err != nil {
		h.discard(ctx, u)
		h.respondError(ctx, w, fmt.Errorf("failed to enqueue task: %w", err))
		return
	}

	h.logger.InfoContext(ctx, "import queued",
		slog.String("job_id", u.jobID),
		slog.String("task_type", info.Type),
		slog.String("queue", info.Queue))

	h.respondJSON(w, http.StatusAccepted, ImportJobResponse{
		JobID:   u.jobID,
		Status:  "queued",
		Message: message,
	})
}

// discard removes an upload that will not be processed and releases its
// dedupe claim
func (h *ImportHandler) discard(ctx context.Context, u *upload) {
	os.Remove(u.path)
	if u.dedupeID == "" {
		return
	}
	if err := h.cache.Delete(ctx, u.dedupeID); err != nil {
		h.logger.WarnContext(ctx, "failed to release import claim",
			slog.String("error", err.Error()))
	}
}

func requester(ctx context.Context) string {
	if id, ok := middleware.UserID(ctx); ok {
		return id.String()
	}
	return ""
}
