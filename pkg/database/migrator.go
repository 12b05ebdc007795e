package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator обёртка над goose
type Migrator struct {
	db      *sql.DB
	dialect goose.Dialect
	log     *zap.Logger
}

// NewMigrator создаёт новый мигратор для указанного драйвера
func NewMigrator(db *sql.DB, driver string, log *zap.Logger) (*Migrator, error) {
	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported migration driver: %q", driver)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Migrator{db: db, dialect: dialect, log: log}, nil
}

func (mg *Migrator) setup() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(zap.NewStdLog(mg.log.Named("goose")))
	if err := goose.SetDialect(string(mg.dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up применяет все pending миграции
func (mg *Migrator) Up(ctx context.Context) error {
	if err := mg.setup(); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, mg.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	mg.log.Info("migrations applied")
	return nil
}

// Down откатывает последнюю миграцию
func (mg *Migrator) Down(ctx context.Context) error {
	if err := mg.setup(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, mg.db, migrationsDir); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// Status печатает состояние миграций в лог
func (mg *Migrator) Status(ctx context.Context) error {
	if err := mg.setup(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, mg.db, migrationsDir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	if err := mg.setup(); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
