// Package storage implements the record store: five SQLite-backed
// collections with change notification and the atomic loan-completion
// statement.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"soldi/internal/log"
)

// EventPublisher mirrors committed record changes to an external broker.
// A nil publisher disables mirroring.
type EventPublisher interface {
	PublishRecordChange(ctx context.Context, kind, op string, id int64) error
}

type Store struct {
	db       *sql.DB
	notifier *Notifier
	events   EventPublisher
}

// New opens (creating if needed) the SQLite database at dbPath, runs
// migrations and returns a ready store. events may be nil.
func New(dbPath string, events EventPublisher) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite serializes writers; a single connection keeps every store
	// call independently serialized as well.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:       db,
		notifier: NewNotifier(),
		events:   events,
	}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Notifier exposes the change-notification registry for live views.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// changed is called after every committed mutation. Subscribers are
// signalled before the mutating call returns; the broker mirror is best
// effort and never fails the write.
func (s *Store) changed(ctx context.Context, kind Kind, op string, id int64) {
	s.notifier.Notify(kind)

	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordChange(ctx, string(kind), op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"component", log.ComponentStorage,
			"kind", kind, "op", op, "id", id, "error", err)
	}
}
