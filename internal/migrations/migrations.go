package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var MigrationFiles embed.FS

// RunMigrations brings the review cache schema up to the latest version.
// With autoMigrate false the schema is left as found and only its version is logged;
// the store's ValidateSchema then decides whether it is usable.
func RunMigrations(db *sql.DB, autoMigrate bool) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	from, err := schemaVersion(m)
	if err != nil {
		return err
	}

	if !autoMigrate {
		slog.Info("[Migrations] Auto-migrate off, schema left untouched", "schema_version", from)
		return nil
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("[Migrations] Schema already current", "schema_version", from)
		return nil
	case err != nil:
		return fmt.Errorf("applying migrations from version %d: %w", from, err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("reading schema version after migrate: %w", err)
	}
	slog.Info("[Migrations] Schema upgraded", "from", from, "to", to)
	return nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	files, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("loading embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("preparing sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", files, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// schemaVersion returns the applied version, 0 for a fresh database. A dirty
// flag is cleared: each file runs in one transaction, so an interrupted run
// applied nothing and the recorded version is still accurate.
func schemaVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	if dirty {
		slog.Warn("[Migrations] Schema marked dirty, clearing flag", "schema_version", version)
		if err := m.Force(int(version)); err != nil {
			return 0, fmt.Errorf("clearing dirty flag at version %d: %w", version, err)
		}
	}
	return version, nil
}
