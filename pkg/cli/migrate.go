package cli

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/fguintu/FlySQL/migrations"
	"github.com/fguintu/FlySQL/pkg/database"
	"github.com/fguintu/FlySQL/pkg/logging"
)

func (c *CLI) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Load the bundled airportdb schema and sample data",
		Long: `Create the airportdb tables and a small sample data set in the configured
database. Intended for local development against an empty database; already
applied migrations are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMigrate()
		},
	}
}

func (c *CLI) runMigrate() error {
	connStr := c.cfg.Database.ConnectionString()

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", logging.SanitizeConnectionString(connStr), err)
	}
	defer db.Close()

	return database.RunMigrations(db, migrations.FS, c.logger.Named("migrate"))
}
