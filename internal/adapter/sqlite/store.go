// Package sqlite implements the document store on an embedded SQLite file,
// for single-node deployments and the CLI.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_documents_collection ON documents (collection, path);
`

var _ docstore.Store = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serialises writers; a single connection also keeps ":memory:"
	// databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	return get(ctx, s.db, path)
}

func (s *Store) Set(ctx context.Context, path string, data json.RawMessage, opts docstore.SetOptions) error {
	return s.BatchWrite(ctx, []docstore.Write{docstore.SetWrite(path, data, opts.Merge)})
}

func (s *Store) Delete(ctx context.Context, path string) error {
	return s.BatchWrite(ctx, []docstore.Write{docstore.DeleteWrite(path)})
}

// BatchWrite applies all writes in one transaction.
func (s *Store) BatchWrite(ctx context.Context, writes []docstore.Write) (err error) {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err, "begin", "")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now().UTC().Format(time.RFC3339Nano)
	for _, w := range writes {
		switch w.Op {
		case docstore.WriteSet:
			err = set(ctx, tx, w, now)
		case docstore.WriteDelete:
			err = del(ctx, tx, w.Path)
		default:
			err = fmt.Errorf("document %s: unknown write op %d: %w", w.Path, w.Op, domain.ErrValidation)
		}
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return mapError(err, "commit", "")
	}
	return nil
}

// List returns the direct children of collection ordered by path.
func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	query, args, err := sq.Select("path", "data", "updated_at").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		OrderBy("path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "document", collection)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var (
			d         docstore.Document
			data      string
			updatedAt string
		)
		if err := rows.Scan(&d.Path, &data, &updatedAt); err != nil {
			return nil, mapError(err, "document", collection)
		}
		d.Data = json.RawMessage(data)
		d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "document", collection)
	}
	return docs, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func get(ctx context.Context, q queryer, path string) (*docstore.Document, error) {
	query, args, err := sq.Select("data", "updated_at").From("documents").Where(sq.Eq{"path": path}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var data, updatedAt string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&data, &updatedAt); err != nil {
		return nil, mapError(err, "document", path)
	}

	ts, _ := time.Parse(time.RFC3339Nano, updatedAt)
	return &docstore.Document{Path: path, Data: json.RawMessage(data), UpdatedAt: ts}, nil
}

func set(ctx context.Context, q queryer, w docstore.Write, now string) error {
	if err := docstore.ValidateObject(w.Data); err != nil {
		return fmt.Errorf("document %s: %w", w.Path, err)
	}

	data := w.Data
	if w.Merge {
		var current json.RawMessage
		doc, err := get(ctx, q, w.Path)
		switch {
		case err == nil:
			current = doc.Data
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		merged, err := docstore.MergePatch(current, w.Data)
		if err != nil {
			return fmt.Errorf("document %s: %w", w.Path, err)
		}
		data = merged
	}

	query, args, err := sq.Insert("documents").
		Columns("path", "collection", "data", "updated_at").
		Values(w.Path, docstore.Collection(w.Path), string(data), now).
		Suffix("ON CONFLICT (path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "document", w.Path)
	}
	return nil
}

func del(ctx context.Context, q queryer, path string) error {
	query, args, err := sq.Delete("documents").Where(sq.Eq{"path": path}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "document", path)
	}
	return nil
}

// mapError converts driver errors to domain errors.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%s %s: %w: %v", entity, key, domain.ErrUnavailable, err)
		case sqlite3.SQLITE_PERM, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_AUTH:
			return fmt.Errorf("%s %s: %w: %v", entity, key, domain.ErrForbidden, err)
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%s %s: %w: %v", entity, key, domain.ErrValidation, err)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}
