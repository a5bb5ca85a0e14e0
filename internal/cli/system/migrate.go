package system

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	sqlStore, ok := ctx.Store.(storage.SQLStore)
	if !ok {
		return fmt.Errorf("migrate command only supports SQL storage")
	}

	count, err := sqlStore.Migrate(func(msg string) {
		fmt.Println("  " + msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		fmt.Println("Database is up to date.")
	} else {
		fmt.Printf("✓ Applied %d migration(s)\n", count)
	}

	current, latest, err := sqlStore.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Printf("  Schema version %d (latest %d)\n", current, latest)
	return nil
}
