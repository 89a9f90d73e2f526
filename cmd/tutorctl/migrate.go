package main

import (
	"fmt"

	idb "tutorhub/internal/infra/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				mg := idb.NewMigration(c.cfg.DatabaseURL, c.engine)
				if err := mg.Up(); err != nil {
					return err
				}
				return c.printVersion(mg)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every migration",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				mg := idb.NewMigration(c.cfg.DatabaseURL, c.engine)
				if err := mg.Down(); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "All migrations reverted")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return c.printVersion(idb.NewMigration(c.cfg.DatabaseURL, c.engine))
			},
		},
	)
	return cmd
}

func (c *cli) printVersion(mg *idb.Migration) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		fmt.Fprintf(c.out, "Schema version: %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(c.out, "Schema version: %d\n", version)
	return nil
}
