// Package migrations embeds SQL migration files into the binary.
//
// HomeGuard runs migrations at startup without needing the SQL files on the
// filesystem - they're compiled into the executable.
package migrations

import (
	"embed"

	"github.com/homeguardhq/homeguard-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files are at the root of the embedded FS
}
