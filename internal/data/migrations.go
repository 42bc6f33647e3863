package data

import (
	"context"
	"database/sql"

	"github.com/festivo/notify-api/internal/migrate"
)

// RunMigrations applies all embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
