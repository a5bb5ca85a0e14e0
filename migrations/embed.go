package migrations

import "embed"

// FS holds the SQL migrations for every supported dialect, one
// subdirectory per driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
