package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// ForceSyncNow cancels the pending debounce timer and flushes the queue,
// waiting for an in-flight sync to finish first.
func (m *Manager) ForceSyncNow(ctx context.Context) error {
	m.mu.Lock()
	m.stopTimerLocked()
	m.mu.Unlock()

	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	return m.runSync(ctx)
}

// onTimer is the debounce callback. It skips when a sync is already running;
// that sync reschedules itself if more work arrived meanwhile.
func (m *Manager) onTimer() {
	if !m.syncMu.TryLock() {
		return
	}
	defer m.syncMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.SyncTimeout)
	defer cancel()

	if err := m.runSync(ctx); err != nil {
		m.log.WarnContext(ctx, "scheduled sync failed", slog.String("error", err.Error()))
	}
}

// runSync must be called with syncMu held.
func (m *Manager) runSync(ctx context.Context) error {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.dirty = false
		m.mu.Unlock()
		return nil
	}
	ops := m.queue
	m.queue = nil
	m.syncing = true
	m.stopTimerLocked()
	now := m.now()
	m.mu.Unlock()

	batch := dedupe(ops)
	writes, err := m.buildWrites(batch, now)
	if err == nil {
		err = m.store.BatchWrite(ctx, writes)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.syncing = false
	m.writes += len(writes)

	if err != nil {
		return m.handleSyncFailureLocked(ctx, batch, err)
	}

	m.lastSync = &now
	m.lastErr = nil
	if len(m.queue) == 0 {
		m.dirty = false
	} else {
		m.scheduleLocked(m.cfg.Debounce)
	}

	m.log.DebugContext(ctx, "batch synced",
		slog.Int("queued", len(ops)),
		slog.Int("operations", len(batch)),
		slog.Int("documents", len(writes)),
	)
	return nil
}

func (m *Manager) handleSyncFailureLocked(ctx context.Context, batch []domain.SyncOperation, cause error) error {
	rerr := domain.NewRemoteError("batch sync", cause)
	permanent := rerr.Code == domain.RemoteCodePermission || rerr.Code == domain.RemoteCodeValidation

	newer := make(map[domain.SyncKey]bool, len(m.queue))
	for _, op := range m.queue {
		newer[op.Key()] = true
	}

	var requeue, dropped []domain.SyncOperation
	for _, op := range batch {
		op.RetryCount++
		switch {
		case newer[op.Key()]:
			// superseded by an update made while the batch was in flight
		case permanent || op.RetryCount >= m.cfg.MaxRetries:
			dropped = append(dropped, op)
		default:
			requeue = append(requeue, op)
		}
	}

	m.queue = append(requeue, m.queue...)
	m.dirty = len(m.queue) > 0
	if m.dirty {
		m.scheduleLocked(m.cfg.RetryDelay)
	}

	m.log.WarnContext(ctx, "batch sync failed",
		slog.String("code", rerr.Code.String()),
		slog.Int("requeued", len(requeue)),
		slog.Int("dropped", len(dropped)),
		slog.String("error", cause.Error()),
	)

	if len(dropped) > 0 {
		se := &SyncError{Dropped: dropped, Err: rerr}
		m.lastErr = se
		return se
	}
	m.lastErr = rerr
	return rerr
}

// buildWrites folds the batch into one merge write of the profile document.
// Card lists never pass through the queue; they are written by the
// session-completion save.
func (m *Manager) buildWrites(batch []domain.SyncOperation, now time.Time) ([]docstore.Write, error) {
	profilePatch := make(map[string]any)
	progress := make(map[string]domain.CardSetProgress)

	for _, op := range batch {
		switch op.Kind {
		case domain.SyncOpProgress:
			progress[op.CardSetID] = *op.Progress
		case domain.SyncOpProfile:
			if op.Profile.DisplayName != nil {
				profilePatch["displayName"] = *op.Profile.DisplayName
			}
			if op.Profile.Email != nil {
				profilePatch["email"] = *op.Profile.Email
			}
			if op.Profile.LastActiveAt != nil {
				profilePatch["lastActiveAt"] = *op.Profile.LastActiveAt
			}
		default:
			return nil, fmt.Errorf("unknown sync op kind %q: %w", op.Kind, domain.ErrValidation)
		}
	}

	if len(progress) == 0 && len(profilePatch) == 0 {
		return nil, nil
	}

	if len(progress) > 0 {
		profilePatch["cardSetsProgress"] = progress
	}
	profilePatch["updatedAt"] = now

	data, err := json.Marshal(profilePatch)
	if err != nil {
		return nil, fmt.Errorf("encode profile patch: %w", err)
	}
	return []docstore.Write{docstore.SetWrite(docstore.ProfilePath(m.accountID), data, true)}, nil
}

type cardSetPatch struct {
	ID        string        `json:"id"`
	Title     string        `json:"title,omitempty"`
	Cards     []domain.Card `json:"cards"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// dedupe keeps the latest operation per (kind, card set), ordered by the
// position of that latest operation.
func dedupe(ops []domain.SyncOperation) []domain.SyncOperation {
	latest := make(map[domain.SyncKey]int, len(ops))
	for i, op := range ops {
		if j, ok := latest[op.Key()]; ok && op.Timestamp.Before(ops[j].Timestamp) {
			continue
		}
		latest[op.Key()] = i
	}

	idx := make([]int, 0, len(latest))
	for _, i := range latest {
		idx = append(idx, i)
	}
	slices.Sort(idx)

	out := make([]domain.SyncOperation, 0, len(idx))
	for _, i := range idx {
		out = append(out, ops[i])
	}
	return out
}

func (m *Manager) enqueueLocked(op domain.SyncOperation) {
	m.queue = append(m.queue, op)
	m.dirty = true
	m.lastUsed = op.Timestamp
	m.scheduleLocked(m.cfg.Debounce)
}

// dropQueuedLocked removes queued operations for cardSetID of the given kinds.
func (m *Manager) dropQueuedLocked(cardSetID string, kinds ...domain.SyncOpKind) {
	m.queue = slices.DeleteFunc(m.queue, func(op domain.SyncOperation) bool {
		return op.CardSetID == cardSetID && slices.Contains(kinds, op.Kind)
	})
	if len(m.queue) == 0 && !m.syncing {
		m.dirty = false
		m.stopTimerLocked()
	}
}

func (m *Manager) scheduleLocked(d time.Duration) {
	m.stopTimerLocked()
	m.timer = time.AfterFunc(d, m.onTimer)
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
