// internal/workers/cleanup_processor_test.go
package workers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/workers"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func TestCleanupProcessor_CleanupTempFiles(t *testing.T) {
	t.Run("removes_only_expired_uploads", func(t *testing.T) {
		dir := t.TempDir()
		stale := filepath.Join(dir, "stale.xlsx")
		fresh := filepath.Join(dir, "fresh.pdf")
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))
		require.NoError(t, os.WriteFile(fresh, []byte("new"), 0o600))

		old := time.Now().Add(-48 * time.Hour)
		require.NoError(t, os.Chtimes(stale, old, old))

		processor := workers.NewCleanupProcessor(dir, 24*time.Hour, helpers.TestLogger())
		require.NoError(t, processor.CleanupTempFiles(context.Background(), workers.NewCleanupTask()))

		assert.NoFileExists(t, stale)
		assert.FileExists(t, fresh)
	})

	t.Run("missing_directory", func(t *testing.T) {
		processor := workers.NewCleanupProcessor(filepath.Join(t.TempDir(), "absent"), time.Hour, helpers.TestLogger())
		assert.NoError(t, processor.CleanupTempFiles(context.Background(), workers.NewCleanupTask()))
	})
}
