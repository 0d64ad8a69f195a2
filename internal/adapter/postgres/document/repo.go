// Package document implements the document store on PostgreSQL. Documents
// live in a single JSONB table keyed by path; merge writes lock the row and
// apply the patch in Go inside a transaction.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	postgres "github.com/heartmarshall/flashcards-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

const entity = "document"

var (
	_ docstore.Store = (*Repo)(nil)

	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
)

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
}

// New creates a new document repository.
func New(pool *pgxpool.Pool, tx *postgres.TxManager) *Repo {
	return &Repo{pool: pool, tx: tx}
}

// Get returns the document at path or a wrapped domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, path string) (*docstore.Document, error) {
	return r.get(ctx, path, false)
}

func (r *Repo) get(ctx context.Context, path string, forUpdate bool) (*docstore.Document, error) {
	q := psql.Select("data", "updated_at").From("documents").Where(sq.Eq{"path": path})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var (
		data      []byte
		updatedAt time.Time
	)
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&data, &updatedAt); err != nil {
		return nil, postgres.MapError(err, entity, path)
	}

	return &docstore.Document{Path: path, Data: data, UpdatedAt: updatedAt}, nil
}

// Set writes a single document.
func (r *Repo) Set(ctx context.Context, path string, data json.RawMessage, opts docstore.SetOptions) error {
	return r.BatchWrite(ctx, []docstore.Write{docstore.SetWrite(path, data, opts.Merge)})
}

// Delete removes a document. Deleting a missing document is a no-op.
func (r *Repo) Delete(ctx context.Context, path string) error {
	return r.BatchWrite(ctx, []docstore.Write{docstore.DeleteWrite(path)})
}

// BatchWrite applies all writes in one transaction.
func (r *Repo) BatchWrite(ctx context.Context, writes []docstore.Write) error {
	if len(writes) == 0 {
		return nil
	}

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, w := range writes {
			var err error
			switch w.Op {
			case docstore.WriteSet:
				err = r.set(ctx, w)
			case docstore.WriteDelete:
				err = r.delete(ctx, w.Path)
			default:
				err = fmt.Errorf("%s %s: unknown write op %d: %w", entity, w.Path, w.Op, domain.ErrValidation)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) set(ctx context.Context, w docstore.Write) error {
	if err := docstore.ValidateObject(w.Data); err != nil {
		return fmt.Errorf("%s %s: %w", entity, w.Path, err)
	}

	data := w.Data
	if w.Merge {
		current, err := r.get(ctx, w.Path, true)
		switch {
		case err == nil:
			merged, mergeErr := docstore.MergePatch(current.Data, w.Data)
			if mergeErr != nil {
				return fmt.Errorf("%s %s: %w", entity, w.Path, mergeErr)
			}
			data = merged
		case errors.Is(err, domain.ErrNotFound):
			merged, mergeErr := docstore.MergePatch(nil, w.Data)
			if mergeErr != nil {
				return fmt.Errorf("%s %s: %w", entity, w.Path, mergeErr)
			}
			data = merged
		default:
			return err
		}
	}

	query, args, err := psql.Insert("documents").
		Columns("path", "collection", "data").
		Values(w.Path, docstore.Collection(w.Path), []byte(data)).
		Suffix("ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, entity, w.Path)
	}
	return nil
}

func (r *Repo) delete(ctx context.Context, path string) error {
	query, args, err := psql.Delete("documents").Where(sq.Eq{"path": path}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, entity, path)
	}
	return nil
}

// List returns the direct children of collection ordered by path.
func (r *Repo) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	query, args, err := psql.Select("path", "data", "updated_at").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		OrderBy("path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, collection)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (docstore.Document, error) {
		var d docstore.Document
		var data []byte
		if err := row.Scan(&d.Path, &data, &d.UpdatedAt); err != nil {
			return d, err
		}
		d.Data = data
		return d, nil
	})
	if err != nil {
		return nil, postgres.MapError(err, entity, collection)
	}
	return docs, nil
}
