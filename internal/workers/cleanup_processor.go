// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	tempDir string
	maxAge  time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewCleanupProcessor creates a new cleanup processor for upload files in
// tempDir older than maxAge
func NewCleanupProcessor(tempDir string, maxAge time.Duration, logger *slog.Logger) *CleanupProcessor {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &CleanupProcessor{
		tempDir: tempDir,
		maxAge:  maxAge,
		logger:  logger.With(slog.String("processor", "cleanup")),
		now:     time.Now,
	}
}

// CleanupTempFiles removes old upload files. A missing directory is not an
// error.
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up temp files", slog.String("dir", p.tempDir))

	now := p.now()
	var deletedCount int
	err := filepath.WalkDir(p.tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) <= p.maxAge {
			return nil
		}

		if err := os.Remove(path); err != nil {
			p.logger.WarnContext(ctx, "failed to delete temp file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			return nil
		}
		deletedCount++
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
