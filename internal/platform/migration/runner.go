// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the catalog schema with golang-migrate.

Migrations are read from an [fs.FS]: the server and CLI use the copy embedded
in the binary ([data.Migrations]) unless MIGRATION_PATH points at a directory
on disk, which is handy while writing a new migration.
*/
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taibuivan/smartimage/data"
)

// Status is the schema version recorded in the database.
type Status struct {
	Version uint
	Dirty   bool
	// Applied is false when no migration has ever run.
	Applied bool
}

// Source picks the migration files: dir when non-empty, the embedded set otherwise.
func Source(dir string) (fs.FS, string) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), "."
		}
	}
	return data.Migrations, "migrations"
}

/*
RunUp applies all pending UP migrations.

Parameters:
  - dsn: postgres:// URL or pgx5:// URL
  - files: fs.FS and the directory inside it holding *.sql files
  - logger: *slog.Logger

Returns:
  - error: Dirty database or failed migration
*/
func RunUp(dsn string, files fs.FS, dir string, logger *slog.Logger) error {
	migrator, err := open(dsn, files, dir, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	before, err := version(migrator)
	if err != nil {
		return err
	}
	if before.Dirty {
		return fmt.Errorf("migration: database is dirty at version %d (manual intervention required)", before.Version)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(before.Version)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	after, err := version(migrator)
	if err != nil {
		return err
	}

	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(before.Version)),
		slog.Uint64("to_version", uint64(after.Version)),
	)
	return nil
}

// Version reports the current schema version without changing anything.
func Version(dsn string, files fs.FS, dir string, logger *slog.Logger) (Status, error) {
	migrator, err := open(dsn, files, dir, logger)
	if err != nil {
		return Status{}, err
	}
	defer closeMigrator(migrator, logger)

	return version(migrator)
}

func open(dsn string, files fs.FS, dir string, logger *slog.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to read migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, toPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}

	migrator.Log = &migrateLogger{logger: logger}
	return migrator, nil
}

func version(migrator *migrate.Migrate) (Status, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migration: failed to read version: %w", err)
	}
	return Status{Version: current, Dirty: dirty, Applied: true}, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceError, dbError := migrator.Close()
	if sourceError != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

// toPgx5DSN rewrites postgres:// style URLs to the pgx5:// scheme the driver registers.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
