package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Run applies all embedded migrations and activates the schema bootstrap
// state. The billing code assumes the full bill schema; a deployment where
// these migrations have not run is a startup failure, never a runtime branch.
func Run(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		_ = unlock(context.Background())
	}()

	latestVersion, err := LatestVersion()
	if err != nil {
		return err
	}

	checksum, err := Checksum()
	if err != nil {
		return err
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if _, err := ensureNotDirty(migrator); err != nil {
		return err
	}

	if upErr := migrator.Up(); upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	current, err := ensureNotDirty(migrator)
	if err != nil {
		return err
	}
	if current != latestVersion {
		return fmt.Errorf("schema version mismatch after migrate: got %d want %d", current, latestVersion)
	}

	return activateBootstrapState(ctx, db, fmt.Sprintf("%d", latestVersion), checksum)
}

// OpenMigrationDB opens a dedicated database/sql handle for the migrator.
func OpenMigrationDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}
	return db, nil
}

func activateBootstrapState(ctx context.Context, db *sql.DB, version, checksum string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE schema_bootstrap_state
		 SET status = 'active', schema_version = $1, checksum = $2, activated_at = CURRENT_TIMESTAMP
		 WHERE id = 1`,
		version, checksum,
	)
	if err != nil {
		return fmt.Errorf("activate bootstrap state: %w", err)
	}
	return nil
}

func ensureNotDirty(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}
