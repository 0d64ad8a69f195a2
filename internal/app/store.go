package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore/memory"
	"github.com/heartmarshall/flashcards-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashcards-backend/internal/adapter/postgres/document"
	"github.com/heartmarshall/flashcards-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/flashcards-backend/internal/config"
)

// Store is an opened document store together with its health probe and
// release function.
type Store struct {
	docstore.Store
	Ping  func(ctx context.Context) error
	Close func()
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// OpenStore opens the document store selected by cfg.Driver. For postgres
// the goose migrations run first when cfg.AutoMigrate is set.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return &Store{
			Store: document.New(pool, postgres.NewTxManager(pool)),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Store: s,
			Ping:  s.Ping,
			Close: func() {
				if err := s.Close(); err != nil {
					log.Warn("close sqlite store", slog.String("error", err.Error()))
				}
			},
		}, nil

	case config.DriverMemory:
		return &Store{
			Store: memory.New(),
			Ping:  func(context.Context) error { return nil },
			Close: func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
