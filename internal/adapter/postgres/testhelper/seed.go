package testhelper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// AccountID returns a fresh account id so tests sharing the container never
// collide on document paths.
func AccountID() string {
	return uuid.NewString()
}

// SeedDocument inserts a raw document row.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, path string, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument marshal: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO documents (path, collection, data) VALUES ($1, $2, $3)`,
		path, docstore.Collection(path), data,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument insert %s: %v", path, err)
	}
}

// SeedLegacyProgress writes one pre-consolidation progress document.
func SeedLegacyProgress(t *testing.T, pool *pgxpool.Pool, accountID string, lp domain.LegacyProgress) {
	t.Helper()
	SeedDocument(t, pool, docstore.LegacyProgressPath(accountID, lp.CardSetID), lp)
}

// DocumentExists reports whether a row with the given path exists.
func DocumentExists(t *testing.T, pool *pgxpool.Pool, path string) bool {
	t.Helper()

	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM documents WHERE path = $1)`, path,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("testhelper: DocumentExists query: %v", err)
	}
	return exists
}
