package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/tally/internal/constants"
)

func TestLoadCreatesDefault(t *testing.T) {
	t.Setenv(constants.EnvDBConnection, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database != filepath.Join(dir, constants.DefaultDatabaseFile) {
		t.Errorf("Database = %q, want default under %s", cfg.Database, dir)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", cfg.Timezone)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}
}

func TestLoadExisting(t *testing.T) {
	t.Setenv(constants.EnvDBConnection, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database: /tmp/other.db\ntimezone: Europe/Paris\ndebug: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database != "/tmp/other.db" || cfg.Timezone != "Europe/Paris" || !cfg.Debug {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalidTimezoneFallsBack(t *testing.T) {
	t.Setenv(constants.EnvDBConnection, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("timezone: Nowhere/Special\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", cfg.Timezone)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(constants.EnvDBConnection, "postgresql://tally@db.internal:5432/tally")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.IsPostgres() {
		t.Errorf("expected env override to select postgres, got %q", cfg.Database)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("TALLY_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TALLY_TEST_DOTENV") })
	if got := os.Getenv("TALLY_TEST_DOTENV"); got != "from-file" {
		t.Errorf("TALLY_TEST_DOTENV = %q, want from-file", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	cfg := &Config{Database: filepath.Join(dir, "x.db"), Timezone: "UTC", BackupOnDelete: false}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("saved config is empty")
	}

	if err := Save("", cfg); err == nil {
		t.Error("Save with empty path should fail")
	}
	if err := Save(path, nil); err == nil {
		t.Error("Save with nil config should fail")
	}
}

func TestSet(t *testing.T) {
	cfg := Default(t.TempDir())

	if err := cfg.Set("timezone", "Asia/Tokyo"); err != nil {
		t.Fatalf("Set(timezone) failed: %v", err)
	}
	if err := cfg.Set("timezone", "Bad/Zone"); err == nil {
		t.Error("Set(timezone) should reject invalid zones")
	}
	if err := cfg.Set("debug", "yes"); err != nil || !cfg.Debug {
		t.Errorf("Set(debug, yes) = %v, debug=%v", err, cfg.Debug)
	}
	if err := cfg.Set("backup_on_delete", "maybe"); err == nil {
		t.Error("Set(backup_on_delete) should reject non-boolean values")
	}
	if err := cfg.Set("color", "blue"); err == nil {
		t.Error("Set should reject unknown keys")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/.config/tally"); got != filepath.Join(home, ".config/tally") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(abs) = %q", got)
	}
}
