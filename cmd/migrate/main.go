// Command migrate manages the PostgreSQL schema and reference data.
//
//	migrate up | down | redo | status | version
//	migrate up-to VERSION
//	migrate create NAME
//	migrate seed
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/database"
	"github.com/glanzwerk/crm/internal/logger"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const sourceDir = "internal/database/migrations"

var errUsage = errors.New("usage: migrate up|down|redo|status|version|up-to VERSION|create NAME|seed")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if args[0] == "seed" {
		return seedCatalog(context.Background(), &cfg.Database, log)
	}

	if cfg.Database.Driver == "sqlite" {
		return errors.New("SQL migrations target PostgreSQL; SQLite databases are created with database.autoMigrate")
	}
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := database.PrepareGoose(); err != nil {
		return err
	}

	return migrate(db, args[0], args[1:], log)
}

func migrate(db *sql.DB, command string, args []string, log *zap.Logger) error {
	dir := database.MigrationsDir
	switch command {
	case "up":
		err := goose.Up(db, dir)
		return report(log, "schema is up to date", err)
	case "down":
		err := goose.Down(db, dir)
		return report(log, "rolled back one migration", err)
	case "redo":
		err := goose.Redo(db, dir)
		return report(log, "reapplied latest migration", err)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	case "up-to":
		if len(args) == 0 {
			return errUsage
		}
		version, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		err = goose.UpTo(db, dir, version)
		return report(log, "migrated to version "+args[0], err)
	case "create":
		if len(args) == 0 {
			return errUsage
		}
		// new files go to the source tree, not the embedded copy
		goose.SetBaseFS(nil)
		if err := goose.Create(db, sourceDir, args[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
}

// seedCatalog upserts the built-in quote templates, also on SQLite
func seedCatalog(ctx context.Context, cfg *config.DatabaseConfig, log *zap.Logger) error {
	catalog, err := seed.Load()
	if err != nil {
		return err
	}
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return err
	}
	if cfg.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}
	return catalog.ApplyTemplates(ctx, repository.NewQuoteTemplateRepository(db), log)
}

func report(log *zap.Logger, done string, err error) error {
	if err != nil {
		return err
	}
	log.Info(done)
	return nil
}
