package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres:// scheme for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator is the subset of *migrate.Migrate used here.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Close() (error, error)
}

// MigrationEngine builds a Migrator; swapped out in tests.
type MigrationEngine func(databaseURL string) (Migrator, error)

// DefaultEngine reads the embedded SQL files.
func DefaultEngine(databaseURL string) (Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

type Migration struct {
	databaseURL string
	engine      MigrationEngine
}

func NewMigration(databaseURL string, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{databaseURL: databaseURL, engine: engine}
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { err = closeMigrator(m, err) }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up error: %w", err)
	}
	return nil
}

// Down reverts every migration.
func (mg *Migration) Down() (err error) {
	m, err := mg.engine(mg.databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { err = closeMigrator(m, err) }()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down error: %w", err)
	}
	return nil
}

// Version reports the applied schema version. A fresh database reports 0.
func (mg *Migration) Version() (version uint, dirty bool, err error) {
	m, err := mg.engine(mg.databaseURL)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { err = closeMigrator(m, err) }()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func closeMigrator(m Migrator, err error) error {
	serr, dberr := m.Close()
	if serr != nil {
		if err != nil {
			err = fmt.Errorf("%w; migration source error: %v", err, serr)
		} else {
			err = serr
		}
	}
	if dberr != nil {
		if err != nil {
			err = fmt.Errorf("%w; migration database error: %v", err, dberr)
		} else {
			err = dberr
		}
	}
	return err
}
