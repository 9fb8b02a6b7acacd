package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

const migrationsTable = "schema_migrations"

// Migrate applies pending schema migrations. It runs on a dedicated
// connection because closing a migrate instance closes its *sql.DB.
func (s *Store) Migrate() error {
	if s.dsn == "" {
		return errors.New("migrate: store has no DSN")
	}
	dialector, err := dialectorFor(s.driver, s.dsn)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("migrate: get sql.DB: %w", err)
	}

	m, err := newMigrate(s.driver, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up (%s): %w", s.driver, err)
	}
	version, dirty, _ := m.Version()
	s.logger.Info("schema migrated", "driver", s.driver, "version", version, "dirty", dirty)
	return nil
}

func newMigrate(driver string, sqlDB *sql.DB) (*migrate.Migrate, error) {
	var (
		dbDriver database.Driver
		dir      string
		err      error
	)
	switch driver {
	case DriverPostgres:
		dir = "migrations/postgres"
		dbDriver, err = postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	case DriverSQLite:
		dir = "migrations/sqlite3"
		dbDriver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("migrate: database driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrate: source %s: %w", dir, err)
	}
	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("migrate: instance: %w", err)
	}
	return m, nil
}
