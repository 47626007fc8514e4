// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// The pool holds a single connection so the database has exactly one writer.
// Code running inside Atomic must only use the scope it was handed.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Fail early if the pragmas did not take
	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if fk != 1 {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys")
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the handle for components that write outside ledger scopes,
// such as the audit logger.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Atomic runs fn in a database transaction.
func (s *SQLiteStore) Atomic(ctx context.Context, fn func(tx storage.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin", err)
	}
	defer tx.Rollback()

	if err := fn(scope{tx: tx}); err != nil {
		if !apperr.IsDomain(err) {
			slog.Error("atomic scope rolled back", "error", err)
		}
		return apperr.Storage("atomic", err)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		return apperr.Storage("commit", err)
	}
	return nil
}

// Backup writes a compacted copy of the database to dest. dest must not exist.
func (s *SQLiteStore) Backup(ctx context.Context, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	quoted := "'" + strings.ReplaceAll(dest, "'", "''") + "'"
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO "+quoted); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	return nil
}

// scope is one open atomic scope. depth 0 is the outer transaction, deeper
// scopes are savepoints inside it.
type scope struct {
	tx    *sql.Tx
	depth int
}

var _ storage.Tx = scope{}

// Atomic opens a savepoint. Success releases it so its writes fold into the
// enclosing scope; failure rolls back to it and hands the error upward.
func (s scope) Atomic(ctx context.Context, fn func(tx storage.Tx) error) error {
	inner := scope{tx: s.tx, depth: s.depth + 1}
	name := fmt.Sprintf("sp_%d", inner.depth)

	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return apperr.Storage("savepoint", err)
	}

	if err := fn(inner); err != nil {
		// ROLLBACK TO keeps the savepoint open, so release it afterwards.
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO "+name); rbErr != nil {
			return apperr.Storage("rollback to savepoint", rbErr)
		}
		if _, relErr := s.tx.ExecContext(ctx, "RELEASE "+name); relErr != nil {
			return apperr.Storage("release savepoint", relErr)
		}
		return err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE "+name); err != nil {
		return apperr.Storage("release savepoint", err)
	}
	return nil
}
