package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/seed"
	"github.com/heartmarshall/flashcards-backend/internal/auth"
	"github.com/heartmarshall/flashcards-backend/internal/cache"
	"github.com/heartmarshall/flashcards-backend/internal/config"
	"github.com/heartmarshall/flashcards-backend/internal/service/migration"
	"github.com/heartmarshall/flashcards-backend/internal/service/review"
)

// Run is the server entry point. It wires the document store, the account
// cache registry and the review service behind the HTTP API, and blocks
// until ctx is cancelled or the server fails. Dirty caches are flushed on
// the way out.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		buildAttrs(),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database_driver", cfg.Database.Driver),
	)

	store, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	registry := cache.NewRegistry(
		logger,
		store,
		seed.NewLoader(os.DirFS(cfg.Seed.Dir)),
		migration.NewService(logger, store),
		CacheConfig(cfg.Sync),
	)
	reviewSvc := review.NewService(logger, review.RegistryProvider(registry))
	registry.OnRelease(reviewSvc.Forget)

	var sweeper *Sweeper
	if cfg.Sweeper.Enabled {
		sweeper = NewSweeper(logger, registry, cfg.Sweeper)
		if err := sweeper.Start(); err != nil {
			return err
		}
	}

	handler := NewHandler(cfg, logger, HandlerDeps{
		Review:   reviewSvc,
		Store:    pingFunc(store.Ping),
		Caches:   registry,
		Verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	if err := registry.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("flush caches: %w", err))
	}
	return errors.Join(errs...)
}

// CacheConfig maps SyncConfig onto the account cache settings.
func CacheConfig(c config.SyncConfig) cache.Config {
	return cache.Config{
		Debounce:    c.Debounce,
		RetryDelay:  c.RetryDelay,
		MaxRetries:  c.MaxRetries,
		SyncTimeout: c.Timeout,
		LoadTimeout: c.LoadTimeout,
		Backoff: cache.BackoffConfig{
			Initial:     c.BackoffInitial,
			Max:         c.BackoffMax,
			MaxAttempts: c.BackoffAttempts,
		},
	}
}
