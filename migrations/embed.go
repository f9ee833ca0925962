// Package migrations embeds SQL migration files into the binary.
package migrations

import (
	"embed"

	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Files are at the root of the embedded FS.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
