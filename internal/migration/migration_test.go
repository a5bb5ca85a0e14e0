package migration

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"001_init.sql": &fstest.MapFile{Data: []byte(`
			CREATE TABLE challenges (id TEXT PRIMARY KEY, title TEXT NOT NULL);
		`)},
		"002_add_checkins.sql": &fstest.MapFile{Data: []byte(`
			CREATE TABLE checkins (id TEXT PRIMARY KEY, challenge_id TEXT NOT NULL, check_date TEXT NOT NULL);
		`)},
		"README.md": &fstest.MapFile{Data: []byte("not a migration")},
	}
}

func newTestRunner(t *testing.T, db *sql.DB, fsys fstest.MapFS) *Runner {
	t.Helper()
	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() failed: %v", err)
	}
	return runner
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	db := setupTestDB(t)
	if _, err := NewRunner(db, testMigrations(), Driver("mysql")); err == nil {
		t.Error("expected error for unsupported driver")
	}
	if _, err := NewRunner(nil, testMigrations(), DriverSQLite); err == nil {
		t.Error("expected error for nil database")
	}
}

func TestGetCurrentVersionFreshDB(t *testing.T) {
	runner := newTestRunner(t, setupTestDB(t), testMigrations())

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 for fresh database, got %d", version)
	}
}

func TestSetVersion(t *testing.T) {
	runner := newTestRunner(t, setupTestDB(t), testMigrations())

	for _, v := range []int{3, 7} {
		if err := runner.SetVersion(v); err != nil {
			t.Fatalf("SetVersion(%d) failed: %v", v, err)
		}
		got, err := runner.GetCurrentVersion()
		if err != nil {
			t.Fatalf("GetCurrentVersion() failed: %v", err)
		}
		if got != v {
			t.Errorf("expected version %d, got %d", v, got)
		}
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := newTestRunner(t, setupTestDB(t), testMigrations())

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles() failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "init" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "add_checkins" {
		t.Errorf("unexpected second migration: %+v", migrations[1])
	}
}

func TestReadMigrationFilesInvalidNames(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"no underscore", "001.sql"},
		{"non-numeric version", "abc_init.sql"},
		{"zero version", "000_init.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.file: &fstest.MapFile{Data: []byte("SELECT 1;")}}
			runner := newTestRunner(t, setupTestDB(t), fsys)
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Errorf("expected error for %s", tt.file)
			}
		})
	}
}

func TestReadMigrationFilesDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
		"1_b.sql":   &fstest.MapFile{Data: []byte("SELECT 1;")},
	}
	runner := newTestRunner(t, setupTestDB(t), fsys)
	if _, err := runner.ReadMigrationFiles(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate version error, got %v", err)
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, testMigrations())

	var logs []string
	count, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	for _, table := range []string{"challenges", "checkins"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no migrations on second run, got %d", count)
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	fsys := testMigrations()
	delete(fsys, "002_add_checkins.sql")

	runner := newTestRunner(t, db, fsys)
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("first ApplyMigrations() = %d, %v", count, err)
	}

	runner = newTestRunner(t, db, testMigrations())
	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected only the new migration to run, got %d", count)
	}
}

func TestApplyMigrationsFailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	fsys := testMigrations()
	fsys["003_broken.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE oops (")}

	runner := newTestRunner(t, db, fsys)
	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied before failure, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version should stay at 2 after failure, got %d", version)
	}
}

func TestValidateVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, testMigrations())

	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error for database behind latest")
	}

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion() after migrate: %v", err)
	}

	if err := runner.SetVersion(9); err != nil {
		t.Fatalf("SetVersion() failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("expected newer-than-supported error, got %v", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer database")
	}
}

func TestSetVersionPostgres(t *testing.T) {
	connStr := os.Getenv("TALLY_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("TALLY_TEST_POSTGRES not set, skipping PostgreSQL migration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("DROP TABLE IF EXISTS schema_version"); err != nil {
		t.Fatalf("failed to reset schema_version: %v", err)
	}

	runner, err := NewRunner(db, testMigrations(), DriverPostgres)
	if err != nil {
		t.Fatalf("NewRunner() failed: %v", err)
	}
	if err := runner.SetVersion(4); err != nil {
		t.Fatalf("SetVersion() with $1 placeholder failed: %v", err)
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 4 {
		t.Errorf("expected version 4, got %d", version)
	}
}
