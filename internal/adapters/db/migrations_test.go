// internal/adapters/db/migrations_test.go
package db

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/migrations"
)

func TestValidateMigrations_Embedded(t *testing.T) {
	require.NoError(t, ValidateMigrations(migrations.FS, "."))
}

func TestValidateMigrations(t *testing.T) {
	file := &fstest.MapFile{Data: []byte("SELECT 1;")}

	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name: "complete_pairs",
			fsys: fstest.MapFS{
				"000001_users.up.sql":   file,
				"000001_users.down.sql": file,
				"000002_sales.up.sql":   file,
				"000002_sales.down.sql": file,
				"embed.go":              file,
			},
		},
		{
			name: "missing_down",
			fsys: fstest.MapFS{
				"000001_users.up.sql": file,
			},
			wantErr: "migration 1 has no down file",
		},
		{
			name: "version_gap",
			fsys: fstest.MapFS{
				"000001_users.up.sql":   file,
				"000001_users.down.sql": file,
				"000003_sales.up.sql":   file,
				"000003_sales.down.sql": file,
			},
			wantErr: "expected 2, found 3",
		},
		{
			name: "bad_name",
			fsys: fstest.MapFS{
				"users.sql": file,
			},
			wantErr: "invalid migration file name",
		},
		{
			name:    "empty",
			fsys:    fstest.MapFS{},
			wantErr: "no migrations found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMigrations(tt.fsys, ".")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAppliedMigrations(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT version, dirty FROM public.schema_migrations ORDER BY version ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).
			AddRow(4, false))

	applied, err := appliedMigrations(context.Background(), sqlDB, "public", "schema_migrations")

	require.NoError(t, err)
	assert.Equal(t, []AppliedMigration{{Version: 4, Dirty: false}}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppliedMigrations_QueryError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT version, dirty FROM`).WillReturnError(assert.AnError)

	_, err = appliedMigrations(context.Background(), sqlDB, "public", "schema_migrations")

	assert.ErrorIs(t, err, assert.AnError)
}
