package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/utils"
)

// Config is the on-disk application configuration.
type Config struct {
	// Database is a SQLite file path or a PostgreSQL URL without a password.
	Database string `yaml:"database"`

	// Timezone decides which calendar date is "today" (IANA name or "Local").
	Timezone string `yaml:"timezone"`

	// Debug turns on debug logging.
	Debug bool `yaml:"debug"`

	// BackupOnDelete snapshots SQLite databases before a challenge is deleted.
	BackupOnDelete bool `yaml:"backup_on_delete"`
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultDir returns the expanded default configuration directory.
func DefaultDir() string {
	return ExpandHome(constants.DefaultConfigDir)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), constants.DefaultConfigFile)
}

// Default returns an in-memory default configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Database:       filepath.Join(dir, constants.DefaultDatabaseFile),
		Timezone:       "Local",
		BackupOnDelete: true,
	}
}

// Normalize fills in missing values so older or partial files still work.
func (c *Config) Normalize(dir string) {
	if strings.TrimSpace(c.Database) == "" {
		c.Database = filepath.Join(dir, constants.DefaultDatabaseFile)
	}
	c.Database = ExpandHome(c.Database)
	if c.Timezone == "" || !utils.ValidateTimezone(c.Timezone) {
		c.Timezone = "Local"
	}
}

// IsPostgres reports whether the configured database is a PostgreSQL URL.
func (c *Config) IsPostgres() bool {
	return IsPostgresURL(c.Database)
}

// IsPostgresURL reports whether s looks like a PostgreSQL connection URL.
func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// Load reads the YAML config at path. A missing file is created with
// defaults (0600). Environment overrides from a .env file in the working
// directory and TALLY_DB_CONNECTION are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path = ExpandHome(path)
	dir := filepath.Dir(path)

	cfg, err := read(path, dir)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); env != "" {
		cfg.Database = env
	}
	cfg.Normalize(dir)

	return cfg, nil
}

func read(path, dir string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default(dir)
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize(dir)
	return &cfg, nil
}

// LoadDotEnv loads KEY=value pairs from file without overriding variables
// already set in the environment. A missing file is not an error.
func LoadDotEnv(file string) error {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	cfg.Normalize(dir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tally-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Set updates a single setting by its YAML key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "database":
		c.Database = value
	case "timezone":
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("invalid timezone %q", value)
		}
		c.Timezone = value
	case "debug":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.Debug = b
	case "backup_on_delete":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.BackupOnDelete = b
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}
