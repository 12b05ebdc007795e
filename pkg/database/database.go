package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options описывает параметры подключения
type Options struct {
	Driver   string
	DSN      string // DATABASE_URL для postgres или путь к файлу для sqlite
	LogLevel logger.LogLevel
	Logger   *zap.Logger
}

// Database представляет подключение к базе данных
type Database struct {
	DB     *gorm.DB
	driver string
	log    *zap.Logger
}

// NewDatabase создает новое подключение к базе данных и применяет миграции
func NewDatabase(ctx context.Context, opts Options) (*Database, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql db handle: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// SQLite не допускает параллельных писателей; in-memory база живёт в единственном соединении
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	database := &Database{DB: db, driver: opts.Driver, log: opts.Logger}

	if err := database.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		return postgres.Open(opts.DSN), nil
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(opts.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", opts.Driver)
	}
}

// sqliteDSN включает внешние ключи, без них не работает каскадное удаление
func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	if !strings.HasPrefix(path, "file:") {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Migrate выполняет миграцию базы данных
func (d *Database) Migrate(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	migrator, err := NewMigrator(sqlDB, d.driver, d.log)
	if err != nil {
		return err
	}
	return migrator.Up(ctx)
}

// Ping проверяет доступность базы данных
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.WithContext(ctx).Exec("SELECT 1").Error
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
