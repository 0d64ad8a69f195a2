package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/flashcards-backend/internal/service/migration"
)

type migrator interface {
	AutoMigrateAndLoad(ctx context.Context, accountID string, load func(context.Context) error) (migration.Result, error)
}

// Registry owns one Manager per account. The first access to an account
// migrates its legacy layout if needed and loads the profile; concurrent
// first accesses share that work.
type Registry struct {
	store    documentStore
	seeds    seedSource
	migrator migrator
	cfg      Config
	log      *slog.Logger
	now      func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	managers  map[string]*Manager
	onRelease []func(accountID string)
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger, store documentStore, seeds seedSource, migrator migrator, cfg Config) *Registry {
	return &Registry{
		store:    store,
		seeds:    seeds,
		migrator: migrator,
		cfg:      cfg,
		log:      log.With("component", "cache_registry"),
		now:      time.Now,
		managers: make(map[string]*Manager),
	}
}

// Manager returns the loaded cache of accountID, creating it on first use.
func (r *Registry) Manager(ctx context.Context, accountID string) (*Manager, error) {
	if m, ok := r.Peek(accountID); ok {
		return m, nil
	}

	v, err, _ := r.group.Do(accountID, func() (any, error) {
		if m, ok := r.Peek(accountID); ok {
			return m, nil
		}

		// Waiters share this load, so it must outlive the first caller.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout())
		defer cancel()

		m := NewManager(r.log, accountID, r.store, r.seeds, r.cfg)
		res, err := r.migrator.AutoMigrateAndLoad(loadCtx, accountID, m.Initialize)
		if err != nil {
			return nil, err
		}
		if !res.Skipped {
			r.log.InfoContext(ctx, "account migrated on first access",
				slog.String("account_id", accountID),
				slog.Int("migrated_sets", len(res.MigratedSets)),
				slog.Int("errors", len(res.Errors)),
			)
		}

		r.mu.Lock()
		r.managers[accountID] = m
		r.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache.Registry.Manager: %w", err)
	}
	return v.(*Manager), nil
}

func (r *Registry) loadTimeout() time.Duration {
	if r.cfg.LoadTimeout > 0 {
		return r.cfg.LoadTimeout
	}
	return DefaultConfig().LoadTimeout
}

// OnRelease registers fn to run after an account's cache is unloaded.
func (r *Registry) OnRelease(fn func(accountID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRelease = append(r.onRelease, fn)
}

// Peek returns the cache of accountID only if it is already loaded.
func (r *Registry) Peek(accountID string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[accountID]
	return m, ok
}

// Len returns the number of loaded accounts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}

// FlushAll force-syncs every dirty cache.
func (r *Registry) FlushAll(ctx context.Context) error {
	var errs []error
	for _, m := range r.snapshot() {
		if !m.IsDirty() {
			continue
		}
		if err := m.ForceSyncNow(ctx); err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", m.AccountID(), err))
		}
	}
	return errors.Join(errs...)
}

// Release flushes and unloads the cache of accountID. The cache stays
// registered when the flush fails so nothing is lost.
func (r *Registry) Release(ctx context.Context, accountID string) error {
	m, ok := r.Peek(accountID)
	if !ok {
		return nil
	}

	if err := m.ForceSyncNow(ctx); err != nil {
		return fmt.Errorf("cache.Registry.Release: %w", err)
	}

	r.mu.Lock()
	delete(r.managers, accountID)
	hooks := r.onRelease
	r.mu.Unlock()

	m.Clear()
	for _, fn := range hooks {
		fn(accountID)
	}
	return nil
}

// EvictIdle releases every cache unused for longer than idle and returns how
// many were evicted.
func (r *Registry) EvictIdle(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := r.now().Add(-idle)

	var (
		evicted int
		errs    []error
	)
	for _, m := range r.snapshot() {
		if m.LastUsed().After(cutoff) {
			continue
		}
		if err := r.Release(ctx, m.AccountID()); err != nil {
			errs = append(errs, err)
			continue
		}
		evicted++
	}
	return evicted, errors.Join(errs...)
}

// Shutdown flushes every cache and stops their timers.
func (r *Registry) Shutdown(ctx context.Context) error {
	err := r.FlushAll(ctx)
	for _, m := range r.snapshot() {
		m.mu.Lock()
		m.stopTimerLocked()
		m.mu.Unlock()
	}
	return err
}

func (r *Registry) snapshot() []*Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Manager, 0, len(r.managers))
	for _, m := range r.managers {
		out = append(out, m)
	}
	return out
}
