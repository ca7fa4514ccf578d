// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ammerola/pharmacy-be/internal/adapters/db"
	"github.com/ammerola/pharmacy-be/internal/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/migrations"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	// Pull PostgreSQL image
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_pharmacy",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	// Clean up on test completion
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	// Get connection details
	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_pharmacy",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementCacheMode: "describe",
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	// Run migrations
	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		EmbeddedSource: migrations.FS,
		UseEmbedded:    true,
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_pharmacy",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		FileProcessing: config.FileProcessingConfig{
			PDFMaxSizeMB:      50,
			ExcelMaxSizeMB:    100,
			ProcessingTimeout: 5 * time.Minute,
			TempDir:           os.TempDir(),
			TempFileMaxAge:    24 * time.Hour,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-test-secret-test-secret",
			JWTExpiration:     24 * time.Hour,
			BcryptCost:        4,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
			RequestIDHeader:   "X-Request-ID",
		},
		Secrets: config.SecretsConfig{
			Source: "env",
		},
		Inventory: config.InventoryConfig{
			LowStockThreshold: 10,
		},
		Report: config.ReportConfig{
			Schedule: "0 2 * * *",
			LinkTTL:  time.Hour,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestCategory creates a test category
func CreateTestCategory(overrides ...func(*domain.Category)) *domain.Category {
	now := time.Now()
	c := &domain.Category{
		ID:        uuid.New(),
		Name:      "Analgesics",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, override := range overrides {
		override(c)
	}
	return c
}

// CreateTestMedicine creates a test medicine with 10 units in stock
func CreateTestMedicine(overrides ...func(*domain.Medicine)) *domain.Medicine {
	now := time.Now()
	m := &domain.Medicine{
		ID:            uuid.New(),
		Name:          "Paracetamol 500mg",
		Description:   "Pain and fever relief, 20 tablets",
		Price:         decimal.RequireFromString("4.50"),
		StockQuantity: 10,
		CategoryID:    uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, override := range overrides {
		override(m)
	}
	return m
}

// CreateTestSale creates a sale of units of the given medicine
func CreateTestSale(medicineID uuid.UUID, units int, overrides ...func(*domain.Sale)) *domain.Sale {
	s := domain.NewSale(medicineID, units, decimal.NewFromInt(int64(units*10)), time.Now())
	for _, override := range overrides {
		override(s)
	}
	return s
}

// CreateTestUser creates a test user. The hash is not a valid bcrypt hash.
func CreateTestUser(overrides ...func(*domain.User)) *domain.User {
	now := time.Now()
	u := &domain.User{
		ID:           uuid.New(),
		Name:         "Test Pharmacist",
		Email:        fmt.Sprintf("pharmacist-%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "not-a-hash",
		MobileNumber: "+15550100",
		Age:          35,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, override := range overrides {
		override(u)
	}
	return u
}

// CreateTestPharmacy creates a pharmacy owned by userID
func CreateTestPharmacy(userID uuid.UUID, overrides ...func(*domain.Pharmacy)) *domain.Pharmacy {
	now := time.Now()
	p := &domain.Pharmacy{
		ID:        uuid.New(),
		Name:      "Corner Pharmacy",
		Location:  "12 Main Street",
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"stock_receipts",
		"sales",
		"medicines",
		"pharmacy_categories",
		"pharmacies",
		"categories",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// SeedCategory inserts a category directly
func SeedCategory(t *testing.T, db *pgxpool.Pool, c *domain.Category) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
	require.NoError(t, err, "Failed to seed category")
}

// SeedMedicine inserts a medicine directly
func SeedMedicine(t *testing.T, db *pgxpool.Pool, m *domain.Medicine) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO medicines (id, name, description, price, stock_quantity, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.Name, m.Description, m.Price, m.StockQuantity, m.CategoryID, m.CreatedAt, m.UpdatedAt)
	require.NoError(t, err, "Failed to seed medicine")
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")

	require.NoError(t, file.Close())

	return file.Name()
}
