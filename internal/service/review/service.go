// Package review is the producer-facing API of the review engine: it runs
// one review session per account on top of the account cache.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/cache"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
	"github.com/heartmarshall/flashcards-backend/internal/service/progress"
	"github.com/heartmarshall/flashcards-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces
// ---------------------------------------------------------------------------

// AccountCache is the slice of cache.Manager the service depends on.
type AccountCache interface {
	GetCards(ctx context.Context, cardSetID string) ([]domain.Card, error)
	GetProgress(cardSetID string) (domain.CardSetProgress, bool)
	GetAllProgress() map[string]domain.CardSetProgress
	SaveSessionResults(ctx context.Context, save cache.SessionSave) error
	ResetCardSet(ctx context.Context, cardSetID string) (domain.CardSetProgress, error)
	ForceSyncNow(ctx context.Context) error
	UpdateProfileOptimistic(update domain.ProfileUpdate) error
	Stats() domain.CacheStats
}

// CacheProvider returns the loaded cache of an account.
type CacheProvider interface {
	Cache(ctx context.Context, accountID string) (AccountCache, error)
}

// CacheProviderFunc adapts a function to CacheProvider.
type CacheProviderFunc func(ctx context.Context, accountID string) (AccountCache, error)

func (f CacheProviderFunc) Cache(ctx context.Context, accountID string) (AccountCache, error) {
	return f(ctx, accountID)
}

// RegistryProvider exposes a cache.Registry as a CacheProvider.
func RegistryProvider(r *cache.Registry) CacheProvider {
	return CacheProviderFunc(func(ctx context.Context, accountID string) (AccountCache, error) {
		m, err := r.Manager(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

type sessionSlot struct {
	mu      sync.Mutex
	session *Session
}

// Service implements the review business logic.
type Service struct {
	caches CacheProvider
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionSlot
}

// NewService creates a new review service.
func NewService(log *slog.Logger, caches CacheProvider) *Service {
	return &Service{
		caches:   caches,
		log:      log.With("service", "review"),
		now:      time.Now,
		sessions: make(map[string]*sessionSlot),
	}
}

func (s *Service) slot(accountID string) *sessionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.sessions[accountID]
	if !ok {
		sl = &sessionSlot{session: NewSession()}
		s.sessions[accountID] = sl
	}
	return sl
}

func (s *Service) account(ctx context.Context) (string, AccountCache, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return "", nil, domain.ErrUnauthorized
	}
	c, err := s.caches.Cache(ctx, accountID)
	if err != nil {
		return "", nil, fmt.Errorf("load account cache: %w", err)
	}
	return accountID, c, nil
}

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

// StartSession begins reviewing a card set. An active session for the same
// set is returned as is; an active session for another set is a conflict.
// When no card qualifies the returned snapshot stays NOT_STARTED.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (Snapshot, error) {
	if err := input.Validate(); err != nil {
		return Snapshot{}, err
	}
	accountID, c, err := s.account(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session.State() == domain.SessionStateActive {
		if sl.session.CardSetID() == input.CardSetID {
			return sl.session.Snapshot(), nil
		}
		return Snapshot{}, fmt.Errorf("session for %s already active: %w", sl.session.CardSetID(), domain.ErrConflict)
	}

	cards, err := c.GetCards(ctx, input.CardSetID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get cards: %w", err)
	}

	now := s.now()
	if input.DueOnly {
		cards = DueCards(cards, now, input.Limit)
	} else if input.Limit > 0 && len(cards) > input.Limit {
		cards = cards[:input.Limit]
	}

	next := NewSession()
	if !next.Start(input.CardSetID, cards, now) {
		s.log.InfoContext(ctx, "nothing to review",
			slog.String("account_id", accountID),
			slog.String("card_set_id", input.CardSetID),
		)
		return next.Snapshot(), nil
	}
	sl.session = next

	s.log.InfoContext(ctx, "session started",
		slog.String("account_id", accountID),
		slog.String("card_set_id", input.CardSetID),
		slog.Int("cards", len(cards)),
	)
	return next.Snapshot(), nil
}

// ShowBack reveals the back of the current card.
func (s *Service) ShowBack(ctx context.Context) (Snapshot, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return Snapshot{}, domain.ErrUnauthorized
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err := sl.session.ShowBack(); err != nil {
		return Snapshot{}, err
	}
	return sl.session.Snapshot(), nil
}

// RateOutput is the result of a rating plus the session state after it.
type RateOutput struct {
	Result  RateResult `json:"result"`
	Session Snapshot   `json:"session"`
}

// Rate grades the current card.
func (s *Service) Rate(ctx context.Context, input RateInput) (RateOutput, error) {
	if err := input.Validate(); err != nil {
		return RateOutput{}, err
	}
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return RateOutput{}, domain.ErrUnauthorized
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	res, err := sl.session.Rate(input.CardID, input.Quality, s.now())
	if err != nil {
		return RateOutput{}, err
	}

	s.log.DebugContext(ctx, "card rated",
		slog.String("account_id", accountID),
		slog.String("card_id", input.CardID),
		slog.String("quality", input.Quality.String()),
	)
	return RateOutput{Result: res, Session: sl.session.Snapshot()}, nil
}

// GetSession returns the account's current session.
func (s *Service) GetSession(ctx context.Context) (Snapshot, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return Snapshot{}, domain.ErrUnauthorized
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.session.Snapshot(), nil
}

// ResetSession discards the current session. Progress already handed to the
// cache keeps syncing.
func (s *Service) ResetSession(ctx context.Context) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.session.Reset()
	return nil
}

// CompleteSession folds the session into a card-set summary, validates it
// and persists it with the three-step save. The session is reset on success
// and kept on failure so the call can be repeated.
func (s *Service) CompleteSession(ctx context.Context) (domain.CardSetProgress, error) {
	accountID, c, err := s.account(ctx)
	if err != nil {
		return domain.CardSetProgress{}, err
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	sess := sl.session
	if sess.State() == domain.SessionStateNotStarted {
		return domain.CardSetProgress{}, domain.ErrSessionNotActive
	}
	cardSetID := sess.CardSetID()

	cards, err := c.GetCards(ctx, cardSetID)
	if err != nil {
		return domain.CardSetProgress{}, fmt.Errorf("get cards: %w", err)
	}

	now := s.now()
	pending := sess.Pending()
	in := progress.FoldInput{
		CardSetID: cardSetID,
		Pending:   pending,
		Cards:     cards,
		Now:       now,
	}
	if prev, ok := c.GetProgress(cardSetID); ok {
		in.Previous = &prev
	}
	summary := progress.Fold(in)

	if res := progress.Check(summary, pending, cards); !res.IsValid {
		s.log.ErrorContext(ctx, "session summary rejected",
			slog.String("account_id", accountID),
			slog.String("card_set_id", cardSetID),
			slog.Any("errors", res.Errors),
		)
		return domain.CardSetProgress{}, res.Err()
	}

	var updated []domain.Card
	for _, card := range progress.ApplyPending(cards, pending) {
		if _, ok := pending[card.ID]; ok {
			updated = append(updated, card)
		}
	}

	err = c.SaveSessionResults(ctx, cache.SessionSave{
		CardSetID: cardSetID,
		Cards:     updated,
		Progress:  summary,
	})
	if err != nil {
		var saveErr *cache.SaveError
		if errors.As(err, &saveErr) {
			s.log.WarnContext(ctx, "session save halted",
				slog.String("account_id", accountID),
				slog.String("card_set_id", cardSetID),
				slog.Int("step", int(saveErr.Step)),
				slog.String("error", err.Error()),
			)
		}
		return domain.CardSetProgress{}, fmt.Errorf("save session results: %w", err)
	}

	sess.Reset()

	// The activity touch rides the next batch sync.
	if err := c.UpdateProfileOptimistic(domain.ProfileUpdate{LastActiveAt: &now}); err != nil {
		s.log.WarnContext(ctx, "last activity not recorded",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()),
		)
	}

	s.log.InfoContext(ctx, "session completed",
		slog.String("account_id", accountID),
		slog.String("card_set_id", cardSetID),
		slog.Int("reviewed_cards", summary.ReviewedCards),
		slog.Int("progress_percentage", summary.ProgressPercentage),
	)
	return summary, nil
}

// ---------------------------------------------------------------------------
// Progress and cache
// ---------------------------------------------------------------------------

// GetDueCards lists the cards of a set due today.
func (s *Service) GetDueCards(ctx context.Context, input GetDueCardsInput) ([]domain.Card, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	_, c, err := s.account(ctx)
	if err != nil {
		return nil, err
	}

	cards, err := c.GetCards(ctx, input.CardSetID)
	if err != nil {
		return nil, fmt.Errorf("get cards: %w", err)
	}
	return DueCards(cards, s.now(), input.Limit), nil
}

// GetCardSetProgress returns the cached summary of one card set.
func (s *Service) GetCardSetProgress(ctx context.Context, cardSetID string) (domain.CardSetProgress, error) {
	_, c, err := s.account(ctx)
	if err != nil {
		return domain.CardSetProgress{}, err
	}

	p, ok := c.GetProgress(cardSetID)
	if !ok {
		return domain.CardSetProgress{}, fmt.Errorf("progress of %s: %w", cardSetID, domain.ErrNotFound)
	}
	return p, nil
}

// GetAllProgress returns every cached summary of the account.
func (s *Service) GetAllProgress(ctx context.Context) (map[string]domain.CardSetProgress, error) {
	_, c, err := s.account(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetAllProgress(), nil
}

// ForceSync flushes queued writes immediately.
func (s *Service) ForceSync(ctx context.Context) error {
	_, c, err := s.account(ctx)
	if err != nil {
		return err
	}
	if err := c.ForceSyncNow(ctx); err != nil {
		return fmt.Errorf("force sync: %w", err)
	}
	return nil
}

// GetCacheStats reports cache counters of the account.
func (s *Service) GetCacheStats(ctx context.Context) (domain.CacheStats, error) {
	_, c, err := s.account(ctx)
	if err != nil {
		return domain.CacheStats{}, err
	}
	return c.Stats(), nil
}

// ResetCardSetProgress wipes the recall state of a set. An active session
// on that set is discarded.
func (s *Service) ResetCardSetProgress(ctx context.Context, cardSetID string) (domain.CardSetProgress, error) {
	if cardSetID == "" {
		return domain.CardSetProgress{}, domain.NewValidationError("card_set_id", "required")
	}
	accountID, c, err := s.account(ctx)
	if err != nil {
		return domain.CardSetProgress{}, err
	}

	sl := s.slot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	p, err := c.ResetCardSet(ctx, cardSetID)
	if err != nil {
		return domain.CardSetProgress{}, fmt.Errorf("reset card set: %w", err)
	}
	if sl.session.CardSetID() == cardSetID {
		sl.session.Reset()
	}

	s.log.InfoContext(ctx, "card set progress reset",
		slog.String("account_id", accountID),
		slog.String("card_set_id", cardSetID),
	)
	return p, nil
}

// Forget drops the session of an account. It is registered as a release
// hook on the cache registry so evicted accounts do not keep a slot.
func (s *Service) Forget(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, accountID)
}
