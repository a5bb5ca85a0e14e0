package cli

import (
	"errors"
	"strings"

	"github.com/julianstephens/tally/internal/config"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

// OpenStore picks the storage backend for db without connecting to it.
// PostgreSQL locations must not carry a password; when the OS keyring holds
// a connection string it is used in their place.
func OpenStore(db string) (storage.Provider, error) {
	db = strings.TrimSpace(db)
	if !config.IsPostgresURL(db) && !strings.Contains(db, "host=") {
		return sqlite.NewStore(config.ExpandHome(db)), nil
	}

	if _, err := postgres.ValidateConnString(db); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, apperrors.WithHint(err,
				"store the full connection string with 'tally keyring set', or use ~/.pgpass or PGPASSWORD")
		}
		return nil, err
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		logger.Debug("Using connection string from OS keyring")
		return postgres.New(connStr), nil
	case !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable):
		logger.Warn("Failed to read connection string from keyring", "error", err)
	}
	return postgres.New(db), nil
}
