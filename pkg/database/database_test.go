package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(context.Background(), Options{Driver: DriverSQLite, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDatabaseAppliesMigrations(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.Ping(ctx))

	for _, table := range []string{"users", "courses", "student_courses", "assignments", "questions", "submissions", "answers", "grades"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	migrator, err := NewMigrator(sqlDB, DriverSQLite, nil)
	require.NoError(t, err)

	version, err := migrator.Version(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	// повторный запуск ничего не меняет
	require.NoError(t, db.Migrate(ctx))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openMemory(t)

	err := db.DB.Exec(`INSERT INTO courses (id, name, teacher_id, created_at, updated_at)
		VALUES ('c1', 'Orphan', 'missing-teacher', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error
	assert.Error(t, err)
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sgs.db")

	db, err := NewDatabase(context.Background(), Options{Driver: DriverSQLite, DSN: path, LogLevel: logger.Silent})
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on", sqliteDSN(""))
	assert.Equal(t, "file::memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file:test.db?cache=shared&_foreign_keys=on", sqliteDSN("file:test.db?cache=shared"))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(context.Background(), Options{Driver: "mysql"})
	assert.Error(t, err)

	_, err = NewDatabase(context.Background(), Options{Driver: DriverPostgres})
	assert.Error(t, err)

	_, err = NewMigrator(nil, "mysql", nil)
	assert.Error(t, err)
}
