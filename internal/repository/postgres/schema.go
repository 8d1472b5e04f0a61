package postgres

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema files in name order. Every file is
// idempotent, so running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db DBTX) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, "list migrations")
	}
	sort.Strings(names)

	log := logger.Get().With("component", "migrations")
	for _, name := range names {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return errors.Wrapf(err, "apply %s", name)
		}
		log.Debugw("Applied migration", "file", name)
	}
	return nil
}
