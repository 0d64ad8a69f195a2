package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/heartmarshall/flashcards-backend/internal/config"
)

type cacheSweeper interface {
	FlushAll(ctx context.Context) error
	EvictIdle(ctx context.Context, idle time.Duration) (int, error)
}

// Sweeper periodically flushes dirty account caches and unloads the ones
// idle for longer than the configured timeout.
type Sweeper struct {
	caches    cacheSweeper
	cfg       config.SweeperConfig
	log       *slog.Logger
	scheduler *gocron.Scheduler
}

// NewSweeper creates a stopped Sweeper.
func NewSweeper(log *slog.Logger, caches cacheSweeper, cfg config.SweeperConfig) *Sweeper {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Sweeper{
		caches:    caches,
		cfg:       cfg,
		log:       log.With("component", "cache_sweeper"),
		scheduler: s,
	}
}

// Start schedules the sweep every FlushInterval and returns immediately.
func (s *Sweeper) Start() error {
	if _, err := s.scheduler.Every(s.cfg.FlushInterval).WaitForSchedule().Do(s.Sweep); err != nil {
		return fmt.Errorf("schedule cache sweep: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop cancels future sweeps and waits for a running one to finish.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep runs one flush and eviction pass.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FlushInterval)
	defer cancel()

	if err := s.caches.FlushAll(ctx); err != nil {
		s.log.WarnContext(ctx, "flush account caches", slog.String("error", err.Error()))
	}

	evicted, err := s.caches.EvictIdle(ctx, s.cfg.IdleTimeout)
	if err != nil {
		s.log.WarnContext(ctx, "evict idle caches", slog.String("error", err.Error()))
	}
	if evicted > 0 {
		s.log.InfoContext(ctx, "idle caches evicted", slog.Int("count", evicted))
	}
}
