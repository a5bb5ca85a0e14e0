package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	fmt.Println("Current Settings:")
	fmt.Printf("  Config file:       %s\n", ctx.ConfigPath)
	fmt.Printf("  database:          %s\n", cfg.Database)
	fmt.Printf("  timezone:          %s\n", cfg.Timezone)
	fmt.Printf("  debug:             %v\n", cfg.Debug)
	fmt.Printf("  backup_on_delete:  %v\n", cfg.BackupOnDelete)
	if path := logger.Path(); path != "" {
		fmt.Printf("  Log file:          %s\n", path)
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" enum:"database,timezone,debug,backup_on_delete" help:"Setting to change (database, timezone, debug, backup_on_delete)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if ctx.ConfigPath == "" {
		return errors.New("no config file in use")
	}
	value := strings.TrimSpace(c.Value)

	if c.Key == "database" && config.IsPostgresURL(value) {
		if _, err := postgres.ValidateConnString(value); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("%w: store the password in ~/.pgpass or use 'tally keyring set'", err)
			}
			return err
		}
	}

	if err := ctx.Config.Set(c.Key, value); err != nil {
		return err
	}
	if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("✓ %s updated\n", c.Key)
	if c.Key == "database" {
		fmt.Println("  Run 'tally init' if the new database has not been initialized yet.")
	}
	return nil
}
