// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ammerola/pharmacy-be/internal/adapters/db"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/internal/pkg/config"
	"github.com/ammerola/pharmacy-be/internal/pkg/logger"
	"github.com/ammerola/pharmacy-be/migrations"
)

// SeederState records what a previous run already inserted
type SeederState struct {
	SeededAt   time.Time `json:"seeded_at"`
	Users      int       `json:"users"`
	Categories int       `json:"categories"`
	Pharmacies int       `json:"pharmacies"`
	Medicines  int       `json:"medicines"`
	Sales      int       `json:"sales"`
}

func main() {
	var (
		migrateCmd   = flag.String("migrate", "up", "Migration command: up, drop, force, status, none")
		forceVersion = flag.Int("version", -1, "Version to force with -migrate=force")
		medicinesXLS = flag.String("medicines", "", "Optional .xlsx workbook of medicines to load")
		stateFile    = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun       = flag.Bool("dry-run", false, "Preview changes without modifying database")
		force        = flag.Bool("force", false, "Seed again even if the state file says it is done")
		skipDemo     = flag.Bool("skip-demo", false, "Only run migrations")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text").Logger

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		plan := demoPlan()
		fmt.Printf("DRY RUN: would run migrations (%s) and insert %d users, %d categories, %d pharmacies, %d medicines, %d sales\n",
			*migrateCmd, len(plan.users), len(plan.categories), len(plan.pharmacies), len(plan.medicines), len(plan.sales))
		return
	}

	if err := migrateDatabase(ctx, cfg, *migrateCmd, *forceVersion, slogger); err != nil {
		slogger.Error("migration failed", slog.String("command", *migrateCmd), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *skipDemo || *migrateCmd == "drop" || *migrateCmd == "status" {
		return
	}

	var state SeederState
	if !*force {
		if data, err := os.ReadFile(*stateFile); err == nil {
			if err := json.Unmarshal(data, &state); err == nil && !state.SeededAt.IsZero() {
				slogger.Info("demo data already seeded, use -force to seed again",
					slog.Time("seeded_at", state.SeededAt))
				return
			}
		}
	}

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     4,
		MinConnections:     1,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	// Seeded writes skip the cache; cached API views expire on their own TTL
	users := db.NewUserRepository(database, slogger)
	seeder := &Seeder{
		auth: services.NewAuthService(users, nil, services.AuthConfig{
			Secret:     cfg.Security.JWTSecret,
			Expiration: cfg.Security.JWTExpiration,
			BcryptCost: cfg.Security.BcryptCost,
		}, slogger),
		users:      users,
		categories: services.NewCategoryService(db.NewCategoryRepository(database, slogger), slogger),
		pharmacies: services.NewPharmacyService(db.NewPharmacyRepository(database, slogger), users, slogger),
		medicines:  services.NewMedicineService(db.NewMedicineRepository(database, slogger), nil, slogger),
		ledger:     services.NewLedgerService(db.NewLedgerScope(database, slogger), nil, slogger),
		logger:     slogger,
	}

	state, err = seeder.Seed(ctx, demoPlan(), *medicinesXLS)
	if err != nil {
		slogger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if data, err := json.MarshalIndent(state, "", "  "); err == nil {
		if err := os.WriteFile(*stateFile, data, 0o644); err != nil {
			slogger.Warn("failed to save state", slog.String("error", err.Error()))
		}
	}

	fmt.Printf("SEEDED: %d users, %d categories, %d pharmacies, %d medicines, %d sales\n",
		state.Users, state.Categories, state.Pharmacies, state.Medicines, state.Sales)
}

func migrateDatabase(ctx context.Context, cfg *config.Config, command string, version int, logger *slog.Logger) error {
	if command == "none" {
		return nil
	}

	migrator, err := db.NewMigrator(&db.MigrationConfig{
		DatabaseURL:    cfg.GetDatabaseURL(),
		EmbeddedSource: migrations.FS,
		UseEmbedded:    true,
		TableName:      "schema_migrations",
		SchemaName:     "public",
	}, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch command {
	case "up":
		return migrator.Up(ctx)
	case "drop":
		return migrator.Drop(ctx)
	case "force":
		if version < 0 {
			return errors.New("-version is required with -migrate=force")
		}
		return migrator.Force(ctx, version)
	case "status":
		status, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t applied=%d\n", status.CurrentVersion, status.IsDirty, len(status.Applied))
		return nil
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
