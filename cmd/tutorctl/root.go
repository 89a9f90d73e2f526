package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"tutorhub/internal/app"
	"tutorhub/internal/infra/config"
	idb "tutorhub/internal/infra/database"
	"tutorhub/internal/infra/logger"

	"github.com/spf13/cobra"
)

// cli carries what the commands share. Connections are opened lazily so
// migrate can run against an empty database.
type cli struct {
	out        io.Writer
	loadConfig func() (*config.AppConfig, error)
	engine     idb.MigrationEngine
	connect    func(ctx context.Context, url string) (*sql.DB, error)

	cfg *config.AppConfig
	db  *sql.DB
}

func newCLI(out io.Writer) *cli {
	return &cli{
		out:        out,
		loadConfig: config.Load,
		engine:     idb.DefaultEngine,
		connect:    idb.NewPostgresConnection,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "tutorctl",
		Short: "TutorHub operator tool",
		Long: `tutorctl runs schema migrations, database backups and profile
administration against the database configured in the environment.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger.Setup(logger.Log, cfg, os.Stderr)
			c.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.db != nil {
				return c.db.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd(c), newBackupCmd(c), newPromoteCmd(c), newTokenCmd(c))
	return root
}

func (c *cli) database(ctx context.Context) (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := c.connect(ctx, c.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

func (c *cli) backupService(ctx context.Context) (*app.BackupService, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}
	profiles := idb.NewPostgresProfileRepository(db)
	// No delivery channels: failures still land in the admins' in-app inbox.
	notifications := app.NewNotificationService(
		idb.NewPostgresClassRepository(db),
		idb.NewPostgresNotificationRepository(db),
		profiles,
		nil,
		c.cfg.UpcomingWindow,
		logger.Component("notifications"),
	)
	return app.NewBackupService(idb.NewPostgresBackupRepository(db), notifications, c.cfg.BackupDir, logger.Component("backup")), nil
}
