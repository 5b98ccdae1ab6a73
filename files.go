package gate

import (
	"context"
	"embed"
	"io/fs"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

func bundledMigrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "data/sql/migrations")
}

// Migrate applies the bundled migrations that have not run yet against db.
// Applied migrations are tracked in bun's migrations table.
func Migrate(ctx context.Context, db *bun.DB) error {
	fsys, err := bundledMigrations()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open migrations")
	}
	return MigrateFS(ctx, db, fsys)
}

// MigrateFS applies the *.up.sql files found in fsys. Statements inside a
// file are separated by --bun:split lines.
func MigrateFS(ctx context.Context, db *bun.DB, fsys fs.FS) error {
	migrator, err := newMigrator(ctx, db, fsys)
	if err != nil {
		return err
	}

	if err := migrator.Lock(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to lock migrations")
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	if _, err := migrator.Migrate(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to apply migration")
	}
	return nil
}

// Rollback reverts the last group of bundled migrations
func Rollback(ctx context.Context, db *bun.DB) error {
	fsys, err := bundledMigrations()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open migrations")
	}

	migrator, err := newMigrator(ctx, db, fsys)
	if err != nil {
		return err
	}

	if err := migrator.Lock(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to lock migrations")
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	if _, err := migrator.Rollback(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to roll back migration")
	}
	return nil
}

func newMigrator(ctx context.Context, db *bun.DB, fsys fs.FS) (*migrate.Migrator, error) {
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(fsys); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to discover migrations")
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create migration tables")
	}
	return migrator, nil
}
