// Package cache holds the per-account snapshot of remote progress state.
// Reads are served from memory, writes are applied optimistically and
// flushed to the document store by a debounced batch sync.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type documentStore interface {
	Get(ctx context.Context, path string) (*docstore.Document, error)
	Set(ctx context.Context, path string, data json.RawMessage, opts docstore.SetOptions) error
	BatchWrite(ctx context.Context, writes []docstore.Write) error
}

type seedSource interface {
	CardSet(ctx context.Context, cardSetID string) (domain.CardSetSeed, error)
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

// BackoffConfig bounds the exponential backoff of direct remote calls.
type BackoffConfig struct {
	Initial     time.Duration
	Max         time.Duration
	MaxAttempts int
}

// Config tunes sync behaviour.
type Config struct {
	// Debounce is the quiet period after the last optimistic update before
	// the queue is flushed.
	Debounce time.Duration
	// RetryDelay is the fixed delay before a failed batch is retried.
	RetryDelay time.Duration
	// MaxRetries is the number of failed batch attempts after which an
	// operation is dropped.
	MaxRetries int
	// SyncTimeout bounds a timer-triggered batch sync.
	SyncTimeout time.Duration
	// LoadTimeout bounds the shared first load of an account, which runs
	// detached from the requesting caller.
	LoadTimeout time.Duration
	Backoff     BackoffConfig
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:    2 * time.Second,
		RetryDelay:  5 * time.Second,
		MaxRetries:  3,
		SyncTimeout: 15 * time.Second,
		LoadTimeout: 30 * time.Second,
		Backoff: BackoffConfig{
			Initial:     200 * time.Millisecond,
			Max:         2 * time.Second,
			MaxAttempts: 3,
		},
	}
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

type cardSetEntry struct {
	set domain.CardSet
	// persisted is false for sets materialised from seed data that the
	// remote store has not seen yet.
	persisted bool
}

// Manager is the cache of a single account. All methods are safe for
// concurrent use; batch syncs never overlap.
type Manager struct {
	accountID string
	store     documentStore
	seeds     seedSource
	cfg       Config
	log       *slog.Logger
	now       func() time.Time

	initMu sync.Mutex
	// syncMu is held for the whole of a batch sync.
	syncMu sync.Mutex

	mu       sync.Mutex
	loaded   bool
	syncing  bool
	dirty    bool
	profile  domain.Profile
	cardSets map[string]*cardSetEntry
	queue    []domain.SyncOperation
	timer    *time.Timer
	reads    int
	writes   int
	lastSync *time.Time
	lastErr  error
	lastUsed time.Time
}

// NewManager creates an empty, unloaded cache for accountID.
func NewManager(log *slog.Logger, accountID string, store documentStore, seeds seedSource, cfg Config) *Manager {
	return &Manager{
		accountID: accountID,
		store:     store,
		seeds:     seeds,
		cfg:       cfg,
		log:       log.With("component", "cache", "account_id", accountID),
		now:       time.Now,
		cardSets:  make(map[string]*cardSetEntry),
	}
}

// AccountID returns the account the cache belongs to.
func (m *Manager) AccountID() string { return m.accountID }

// Initialize reads the account profile once. Calling it again while loaded
// performs no remote read.
func (m *Manager) Initialize(ctx context.Context) error {
	m.initMu.Lock()
	defer m.initMu.Unlock()

	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}

	var doc *docstore.Document
	err := m.retryRemote(ctx, "load profile", func(ctx context.Context) error {
		m.countReads(1)
		d, err := m.store.Get(ctx, docstore.ProfilePath(m.accountID))
		if errors.Is(err, domain.ErrNotFound) {
			doc = nil
			return nil
		}
		doc = d
		return err
	})
	if err != nil {
		return fmt.Errorf("cache.Initialize: %w", err)
	}

	now := m.now()
	profile := domain.Profile{
		AccountID:     m.accountID,
		SchemaVersion: domain.CurrentSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if doc != nil {
		if err := json.Unmarshal(doc.Data, &profile); err != nil {
			return fmt.Errorf("cache.Initialize: decode profile: %w", err)
		}
	}
	if profile.CardSetsProgress == nil {
		profile.CardSetsProgress = make(map[string]domain.CardSetProgress)
	}

	m.mu.Lock()
	m.profile = profile
	m.loaded = true
	m.lastSync = &now
	m.lastUsed = now
	m.mu.Unlock()

	m.log.DebugContext(ctx, "cache loaded",
		slog.Bool("profile_found", doc != nil),
		slog.Int("card_sets", len(profile.CardSetsProgress)),
	)
	return nil
}

// Clear drops all local state and cancels a pending sync timer. An in-flight
// sync is not interrupted.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTimerLocked()
	m.loaded = false
	m.dirty = false
	m.profile = domain.Profile{}
	m.cardSets = make(map[string]*cardSetEntry)
	m.queue = nil
	m.reads, m.writes = 0, 0
	m.lastSync = nil
	m.lastErr = nil
}

// GetProgress returns the cached summary of a card set without any remote call.
func (m *Manager) GetProgress(cardSetID string) (domain.CardSetProgress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUsed = m.now()
	p, ok := m.profile.CardSetsProgress[cardSetID]
	return p, ok
}

// GetAllProgress returns a copy of every cached summary.
func (m *Manager) GetAllProgress() map[string]domain.CardSetProgress {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUsed = m.now()
	out := maps.Clone(m.profile.CardSetsProgress)
	if out == nil {
		out = make(map[string]domain.CardSetProgress)
	}
	return out
}

// Profile returns a copy of the cached profile.
func (m *Manager) Profile() domain.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.profile
	p.CardSetsProgress = maps.Clone(m.profile.CardSetsProgress)
	return p
}

// UpdateProgressOptimistic overwrites the cached summary and queues it for sync.
func (m *Manager) UpdateProgressOptimistic(progress domain.CardSetProgress) error {
	if progress.CardSetID == "" {
		return domain.NewValidationError("card_set_id", "required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return ErrNotLoaded
	}

	now := m.now()
	m.profile.CardSetsProgress[progress.CardSetID] = progress
	m.enqueueLocked(domain.SyncOperation{
		Kind:      domain.SyncOpProgress,
		CardSetID: progress.CardSetID,
		Progress:  &progress,
		Timestamp: now,
	})
	return nil
}

// UpdateProfileOptimistic applies identity changes locally and queues them.
func (m *Manager) UpdateProfileOptimistic(update domain.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return ErrNotLoaded
	}

	if update.DisplayName != nil {
		m.profile.DisplayName = *update.DisplayName
	}
	if update.Email != nil {
		m.profile.Email = *update.Email
	}
	if update.LastActiveAt != nil {
		t := *update.LastActiveAt
		m.profile.LastActiveAt = &t
	}

	// The queued op carries the full identity so latest-wins dedupe never
	// loses a field set by an earlier update.
	m.enqueueLocked(domain.SyncOperation{
		Kind:      domain.SyncOpProfile,
		Profile:   m.identityLocked(),
		Timestamp: m.now(),
	})
	return nil
}

// GetCards returns the card list of a set: from memory when cached, otherwise
// with one remote read, falling back to seed data when the set has never
// been persisted.
func (m *Manager) GetCards(ctx context.Context, cardSetID string) ([]domain.Card, error) {
	m.mu.Lock()
	if !m.loaded {
		m.mu.Unlock()
		return nil, ErrNotLoaded
	}
	m.lastUsed = m.now()
	if entry, ok := m.cardSets[cardSetID]; ok {
		cards := slices.Clone(entry.set.Cards)
		m.mu.Unlock()
		return cards, nil
	}
	m.mu.Unlock()

	set, persisted, err := m.fetchCardSet(ctx, cardSetID)
	if err != nil {
		return nil, fmt.Errorf("cache.GetCards: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.cardSets[cardSetID]; ok {
		return slices.Clone(entry.set.Cards), nil
	}
	m.cardSets[cardSetID] = &cardSetEntry{set: set, persisted: persisted}
	return slices.Clone(set.Cards), nil
}

// Stats reports counters and sync status.
func (m *Manager) Stats() domain.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := domain.CacheStats{
		AccountID:      m.accountID,
		State:          m.stateLocked(),
		IsDirty:        m.dirty,
		QueueLength:    len(m.queue),
		Reads:          m.reads,
		Writes:         m.writes,
		CachedCardSets: len(m.cardSets),
	}
	if m.lastSync != nil {
		t := *m.lastSync
		s.LastSyncTime = &t
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

// State returns the current lifecycle state.
func (m *Manager) State() domain.CacheState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// IsDirty reports whether local changes are waiting to be synced.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// LastUsed returns the time of the last read or write through the cache.
func (m *Manager) LastUsed() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUsed
}

func (m *Manager) stateLocked() domain.CacheState {
	switch {
	case !m.loaded:
		return domain.CacheStateEmpty
	case m.syncing:
		return domain.CacheStateSyncing
	case m.dirty:
		return domain.CacheStateDirty
	default:
		return domain.CacheStateLoaded
	}
}

func (m *Manager) identityLocked() *domain.ProfileUpdate {
	u := &domain.ProfileUpdate{}
	if m.profile.DisplayName != "" {
		name := m.profile.DisplayName
		u.DisplayName = &name
	}
	if m.profile.Email != "" {
		email := m.profile.Email
		u.Email = &email
	}
	if m.profile.LastActiveAt != nil {
		t := *m.profile.LastActiveAt
		u.LastActiveAt = &t
	}
	return u
}

func (m *Manager) countReads(n int) {
	m.mu.Lock()
	m.reads += n
	m.mu.Unlock()
}

func (m *Manager) countWrites(n int) {
	m.mu.Lock()
	m.writes += n
	m.mu.Unlock()
}

func (m *Manager) fetchCardSet(ctx context.Context, cardSetID string) (domain.CardSet, bool, error) {
	var doc *docstore.Document
	err := m.retryRemote(ctx, "load card set", func(ctx context.Context) error {
		m.countReads(1)
		d, err := m.store.Get(ctx, docstore.CardSetPath(m.accountID, cardSetID))
		if errors.Is(err, domain.ErrNotFound) {
			doc = nil
			return nil
		}
		doc = d
		return err
	})
	if err != nil {
		return domain.CardSet{}, false, err
	}

	if doc != nil {
		set, err := decodeCardSet(cardSetID, doc.Data)
		if err != nil {
			return domain.CardSet{}, false, err
		}
		return set, true, nil
	}

	seed, err := m.seeds.CardSet(ctx, cardSetID)
	if err != nil {
		return domain.CardSet{}, false, fmt.Errorf("seed card set %s: %w", cardSetID, err)
	}
	return domain.NewCardSet(seed, m.now()), false, nil
}

func decodeCardSet(cardSetID string, data json.RawMessage) (domain.CardSet, error) {
	var set domain.CardSet
	if err := json.Unmarshal(data, &set); err != nil {
		return set, fmt.Errorf("decode card set %s: %w", cardSetID, err)
	}
	if set.ID == "" {
		set.ID = cardSetID
	}
	for i := range set.Cards {
		if set.Cards[i].CardSetID == "" {
			set.Cards[i].CardSetID = cardSetID
		}
	}
	return set, nil
}

// mergeCards returns base with every card replaced by its counterpart in
// updated. Cards unknown to base are ignored.
func mergeCards(base, updated []domain.Card) []domain.Card {
	byID := make(map[string]domain.Card, len(updated))
	for _, c := range updated {
		byID[c.ID] = c
	}

	out := slices.Clone(base)
	for i, c := range out {
		if u, ok := byID[c.ID]; ok {
			out[i] = u
		}
	}
	return out
}
