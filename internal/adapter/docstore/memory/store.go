// Package memory is an in-process document store used by tests, the CLI
// dry-run mode and the "memory" database driver.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

var _ docstore.Store = (*Store)(nil)

type record struct {
	data      json.RawMessage
	updatedAt time.Time
}

// Store keeps documents in a map guarded by a RWMutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string]record
	now  func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		docs: make(map[string]record),
		now:  time.Now,
	}
}

func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", path, domain.ErrNotFound)
	}
	return &docstore.Document{Path: path, Data: clone(rec.data), UpdatedAt: rec.updatedAt}, nil
}

func (s *Store) Set(ctx context.Context, path string, data json.RawMessage, opts docstore.SetOptions) error {
	return s.BatchWrite(ctx, []docstore.Write{docstore.SetWrite(path, data, opts.Merge)})
}

func (s *Store) Delete(ctx context.Context, path string) error {
	return s.BatchWrite(ctx, []docstore.Write{docstore.DeleteWrite(path)})
}

// BatchWrite stages every write on a copy and swaps it in only when all of
// them succeed.
func (s *Store) BatchWrite(ctx context.Context, writes []docstore.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]*record, len(writes))
	now := s.now()

	for _, w := range writes {
		switch w.Op {
		case docstore.WriteDelete:
			staged[w.Path] = nil
		case docstore.WriteSet:
			if err := docstore.ValidateObject(w.Data); err != nil {
				return fmt.Errorf("document %s: %w", w.Path, err)
			}
			data := clone(w.Data)
			if w.Merge {
				var current json.RawMessage
				if rec, ok := staged[w.Path]; ok {
					if rec != nil {
						current = rec.data
					}
				} else if rec, ok := s.docs[w.Path]; ok {
					current = rec.data
				}
				merged, err := docstore.MergePatch(current, w.Data)
				if err != nil {
					return fmt.Errorf("document %s: %w", w.Path, err)
				}
				data = merged
			}
			staged[w.Path] = &record{data: data, updatedAt: now}
		default:
			return fmt.Errorf("document %s: unknown write op %d: %w", w.Path, w.Op, domain.ErrValidation)
		}
	}

	for path, rec := range staged {
		if rec == nil {
			delete(s.docs, path)
			continue
		}
		s.docs[path] = *rec
	}
	return nil
}

// List returns the direct children of collection ordered by path.
func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.Trim(collection, "/") + "/"
	var out []docstore.Document
	for path, rec := range s.docs {
		if !strings.HasPrefix(path, prefix) || strings.Contains(path[len(prefix):], "/") {
			continue
		}
		out = append(out, docstore.Document{Path: path, Data: clone(rec.data), UpdatedAt: rec.updatedAt})
	}

	slices.SortFunc(out, func(a, b docstore.Document) int { return strings.Compare(a.Path, b.Path) })
	return out, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func clone(b json.RawMessage) json.RawMessage {
	if b == nil {
		return nil
	}
	return append(json.RawMessage(nil), b...)
}
