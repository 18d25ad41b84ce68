// Package devserver is a self-contained implementation of the Progress
// Tracker REST API backed by SQLite. It exists so the client can be run and
// tested without the production backend.
package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DatabaseFile is the SQLite file created inside the data directory.
const DatabaseFile = "tracker.db"

// Backend lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("backend already attached")
	ErrDetached        = errors.New("backend is detached")
	ErrBadCredentials  = errors.New("invalid email or password")
)

// Backend owns the SQLite database behind the dev server.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	logger   *zap.Logger
}

// NewBackend creates a detached backend. Call Attach before use.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger}
}

// Attach opens the database under dataDir, creating the directory and the
// schema as needed. An empty dataDir keeps everything in memory for the
// lifetime of the backend.
func (b *Backend) Attach(dataDir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}

	dsn := ":memory:"
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, DatabaseFile)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection: an in-memory database is private to its connection,
	// and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	b.db = db
	b.attached = true
	b.logger.Info("backend attached", zap.String("dsn", dsn))
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.attached = false
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// conn returns the open database or ErrDetached. The read lock is held
// until release is called.
func (b *Backend) conn() (*sql.DB, func(), error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return nil, nil, ErrDetached
	}
	return b.db, b.mu.RUnlock, nil
}

// tx runs fn in a transaction, committing when it returns nil.
func (b *Backend) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	db, release, err := b.conn()
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
