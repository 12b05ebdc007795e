package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/config"
	"github.com/yashdodwani/student-grading-system/pkg/database"
	"github.com/yashdodwani/student-grading-system/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const usage = "usage: migrate [up|down|status|version]"

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBDriver != database.DriverPostgres || cfg.DatabaseURL == "" {
		log.Fatalf("migrate works with postgres only: set DB_DRIVER=postgres and DATABASE_URL")
	}

	zl := logger.New(cfg.Environment)
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to create pool", zap.Error(err))
	}
	defer pool.Close()

	// goose работает с *sql.DB, поэтому создаём его поверх пула
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	migrator, err := database.NewMigrator(db, database.DriverPostgres, zl)
	if err != nil {
		zl.Fatal("failed to create migrator", zap.Error(err))
	}

	if err := run(ctx, migrator, command); err != nil {
		zl.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func run(ctx context.Context, migrator *database.Migrator, command string) error {
	switch command {
	case "up":
		return migrator.Up(ctx)
	case "down":
		return migrator.Down(ctx)
	case "status":
		return migrator.Status(ctx)
	case "version":
		version, err := migrator.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Println(version)
		return nil
	default:
		return fmt.Errorf("unknown command %q; %s", command, usage)
	}
}
