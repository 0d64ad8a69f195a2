package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore/memory"
	"github.com/heartmarshall/flashcards-backend/internal/app"
	"github.com/heartmarshall/flashcards-backend/internal/auth"
	"github.com/heartmarshall/flashcards-backend/internal/config"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func testEnv(t *testing.T, store *memory.Store) Env {
	t.Helper()

	seedDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seedDir, "spanish.yaml"), []byte(`
id: spanish
title: Spanish
cards:
  - {id: hola, front: hola, back: hello}
  - {id: gato, front: gato, back: cat}
  - {id: perro, front: perro, back: dog}
`), 0o600))

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth:     config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "flashcards"},
		Sync:     config.SyncConfig{Debounce: time.Hour, RetryDelay: time.Hour, MaxRetries: 3, Timeout: time.Second, BackoffInitial: time.Millisecond, BackoffMax: time.Millisecond, BackoffAttempts: 1},
		Seed:     config.SeedConfig{Dir: seedDir},
	}

	return Env{
		LoadConfig: func(string) (*config.Config, error) { return cfg, nil },
		OpenStore: func(context.Context, config.DatabaseConfig, *slog.Logger) (*app.Store, error) {
			return &app.Store{
				Store: store,
				Ping:  func(context.Context) error { return nil },
				Close: func() {},
			}, nil
		},
		Now: func() time.Time { return testNow },
	}
}

func execute(t *testing.T, env Env, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(env)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand(DefaultEnv())
	for _, name := range []string{"migrate", "progress", "due", "seeds", "token"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := execute(t, testEnv(t, memory.New()), "--format", "xml", "seeds")
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func TestMigrateAndProgress(t *testing.T) {
	t.Parallel()

	store := memory.New()
	env := testEnv(t, store)
	ctx := context.Background()

	legacy, err := json.Marshal(domain.LegacyProgress{CardSetID: "spanish", TotalCards: 3, ReviewedCards: 2, MasteredCards: 1, NeedPracticeCards: 1})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, docstore.LegacyProgressPath("acc-1", "spanish"), legacy, docstore.SetOptions{}))

	out, err := execute(t, env, "migrate", "acc-1", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "needs migration: true")

	out, err = execute(t, env, "--format", "json", "migrate", "acc-1")
	require.NoError(t, err)
	var res struct {
		MigratedSets []string `json:"migratedSets"`
		Skipped      bool     `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"spanish"}, res.MigratedSets)
	assert.False(t, res.Skipped)

	out, err = execute(t, env, "progress", "acc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "spanish")
	assert.Contains(t, out, "67%")

	_, err = execute(t, env, "progress", "acc-1", "french")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDue(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testEnv(t, memory.New()), "due", "acc-1", "spanish", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "hola\thola\tnew")
	assert.Contains(t, out, "2 of 3 cards due")
	assert.NotContains(t, out, "perro")
}

func TestSeeds(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testEnv(t, memory.New()), "seeds")
	require.NoError(t, err)
	assert.Contains(t, out, `spanish	"Spanish"	3 cards`)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "broken.yaml"), []byte("id: broken\ncards: []\n"), 0o600))
	_, err = execute(t, testEnv(t, memory.New()), "seeds", "--dir", bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestToken(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testEnv(t, memory.New()), "--format", "json", "token", "acc-9", "--ttl", "1h")
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &body))

	account, err := auth.NewVerifier(testSecret, "flashcards").ValidateToken(context.Background(), body["token"])
	require.NoError(t, err)
	assert.Equal(t, "acc-9", account)
}
