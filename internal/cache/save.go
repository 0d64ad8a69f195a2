package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// SessionSave is the outcome of a completed review session.
type SessionSave struct {
	CardSetID string
	// Cards holds the reviewed cards with their new recall state.
	Cards    []domain.Card
	Progress domain.CardSetProgress
}

// SaveSessionResults persists a completed session in three ordered steps and
// stops at the first failure:
//
//  1. ensure the card set document exists, creating it from seed data
//  2. write the updated cards into the card set document
//  3. merge the summary into the profile's cardSetsProgress
//
// Every step can be re-applied, so a failed save may simply be retried.
// When step 3 fails the summary is kept locally and queued for batch sync.
func (m *Manager) SaveSessionResults(ctx context.Context, save SessionSave) error {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}

	set, err := m.ensureCardSet(ctx, save.CardSetID)
	if err != nil {
		return &SaveError{Step: StepEnsureCardSet, CardSetID: save.CardSetID, Err: err}
	}

	now := m.now()
	merged := mergeCards(set.Cards, save.Cards)
	cardsData, err := json.Marshal(cardSetPatch{ID: save.CardSetID, Cards: merged, UpdatedAt: now})
	if err != nil {
		return &SaveError{Step: StepWriteCards, CardSetID: save.CardSetID, Err: err}
	}

	err = m.retryRemote(ctx, "write cards", func(ctx context.Context) error {
		m.countWrites(1)
		return m.store.Set(ctx, docstore.CardSetPath(m.accountID, save.CardSetID), cardsData, docstore.SetOptions{Merge: true})
	})
	if err != nil {
		return &SaveError{Step: StepWriteCards, CardSetID: save.CardSetID, Err: err}
	}

	m.mu.Lock()
	set.Cards = merged
	set.UpdatedAt = now
	m.cardSets[save.CardSetID] = &cardSetEntry{set: set, persisted: true}
	m.mu.Unlock()

	progressData, err := json.Marshal(map[string]any{
		"cardSetsProgress": map[string]domain.CardSetProgress{save.CardSetID: save.Progress},
		"updatedAt":        now,
	})
	if err != nil {
		return &SaveError{Step: StepWriteProgress, CardSetID: save.CardSetID, Err: err}
	}

	err = m.retryRemote(ctx, "write progress", func(ctx context.Context) error {
		m.countWrites(1)
		return m.store.Set(ctx, docstore.ProfilePath(m.accountID), progressData, docstore.SetOptions{Merge: true})
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		// Cleared while saving; the remote write stands but there is no
		// snapshot to update.
		if err != nil {
			return &SaveError{Step: StepWriteProgress, CardSetID: save.CardSetID, Err: err}
		}
		return nil
	}

	m.profile.CardSetsProgress[save.CardSetID] = save.Progress

	if err != nil {
		progress := save.Progress
		m.enqueueLocked(domain.SyncOperation{
			Kind:      domain.SyncOpProgress,
			CardSetID: save.CardSetID,
			Progress:  &progress,
			Timestamp: now,
		})
		m.log.WarnContext(ctx, "progress write failed, queued for sync",
			slog.String("card_set_id", save.CardSetID),
			slog.String("error", err.Error()),
		)
		return &SaveError{Step: StepWriteProgress, CardSetID: save.CardSetID, Err: err}
	}

	m.dropQueuedLocked(save.CardSetID, domain.SyncOpProgress)
	m.lastSync = &now

	m.log.InfoContext(ctx, "session results saved",
		slog.String("card_set_id", save.CardSetID),
		slog.Int("cards", len(save.Cards)),
		slog.Int("reviewed_cards", save.Progress.ReviewedCards),
	)
	return nil
}

// ensureCardSet returns the card set, creating its remote document from seed
// data when absent. A set already known to be persisted costs no remote call.
func (m *Manager) ensureCardSet(ctx context.Context, cardSetID string) (domain.CardSet, error) {
	m.mu.Lock()
	entry, cached := m.cardSets[cardSetID]
	var local domain.CardSet
	if cached {
		local = entry.set
		local.Cards = slices.Clone(entry.set.Cards)
		if entry.persisted {
			m.mu.Unlock()
			return local, nil
		}
	}
	m.mu.Unlock()

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
		return domain.CardSet{}, err
	}

	if doc != nil {
		set, err := decodeCardSet(cardSetID, doc.Data)
		if err != nil {
			return domain.CardSet{}, err
		}
		m.mu.Lock()
		m.cardSets[cardSetID] = &cardSetEntry{set: set, persisted: true}
		m.mu.Unlock()
		return set, nil
	}

	if !cached {
		seed, err := m.seeds.CardSet(ctx, cardSetID)
		if err != nil {
			return domain.CardSet{}, fmt.Errorf("seed card set %s: %w", cardSetID, err)
		}
		local = domain.NewCardSet(seed, m.now())
	}

	data, err := json.Marshal(local)
	if err != nil {
		return domain.CardSet{}, fmt.Errorf("encode card set %s: %w", cardSetID, err)
	}

	err = m.retryRemote(ctx, "create card set", func(ctx context.Context) error {
		m.countWrites(1)
		return m.store.Set(ctx, docstore.CardSetPath(m.accountID, cardSetID), data, docstore.SetOptions{})
	})
	if err != nil {
		return domain.CardSet{}, err
	}

	m.mu.Lock()
	m.cardSets[cardSetID] = &cardSetEntry{set: local, persisted: true}
	m.mu.Unlock()

	m.log.InfoContext(ctx, "card set created from seed",
		slog.String("card_set_id", cardSetID),
		slog.Int("cards", len(local.Cards)),
	)
	return local, nil
}

// ResetCardSet wipes the recall state of every card in the set and zeroes
// its summary in one batch. It is the only path allowed to lower
// reviewedCards. A queued summary for the set is discarded.
func (m *Manager) ResetCardSet(ctx context.Context, cardSetID string) (domain.CardSetProgress, error) {
	cards, err := m.GetCards(ctx, cardSetID)
	if err != nil {
		return domain.CardSetProgress{}, fmt.Errorf("cache.ResetCardSet: %w", err)
	}

	now := m.now()
	for i := range cards {
		cards[i].RecallState = domain.NewRecallState()
	}

	m.mu.Lock()
	title := ""
	if entry, ok := m.cardSets[cardSetID]; ok {
		title = entry.set.Title
	}
	createdAt := now
	if prev, ok := m.profile.CardSetsProgress[cardSetID]; ok && !prev.CreatedAt.IsZero() {
		createdAt = prev.CreatedAt
	}
	m.mu.Unlock()

	progress := domain.CardSetProgress{
		CardSetID:  cardSetID,
		TotalCards: len(cards),
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}

	cardsData, err := json.Marshal(cardSetPatch{ID: cardSetID, Title: title, Cards: cards, UpdatedAt: now})
	if err != nil {
		return domain.CardSetProgress{}, fmt.Errorf("cache.ResetCardSet: encode cards: %w", err)
	}
	progressData, err := json.Marshal(map[string]any{
		"cardSetsProgress": map[string]domain.CardSetProgress{cardSetID: progress},
		"updatedAt":        now,
	})
	if err != nil {
		return domain.CardSetProgress{}, fmt.Errorf("cache.ResetCardSet: encode progress: %w", err)
	}

	writes := []docstore.Write{
		docstore.SetWrite(docstore.CardSetPath(m.accountID, cardSetID), cardsData, true),
		docstore.SetWrite(docstore.ProfilePath(m.accountID), progressData, true),
	}
	err = m.retryRemote(ctx, "reset card set", func(ctx context.Context) error {
		m.countWrites(len(writes))
		return m.store.BatchWrite(ctx, writes)
	})
	if err != nil {
		return domain.CardSetProgress{}, fmt.Errorf("cache.ResetCardSet: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		entry := m.cardSets[cardSetID]
		if entry == nil {
			entry = &cardSetEntry{set: domain.CardSet{ID: cardSetID, Title: title}}
			m.cardSets[cardSetID] = entry
		}
		entry.set.Cards = cards
		entry.set.UpdatedAt = now
		entry.persisted = true
		m.profile.CardSetsProgress[cardSetID] = progress
		m.dropQueuedLocked(cardSetID, domain.SyncOpProgress)
	}

	m.log.InfoContext(ctx, "card set reset", slog.String("card_set_id", cardSetID))
	return progress, nil
}
