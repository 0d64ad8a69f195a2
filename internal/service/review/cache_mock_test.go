package review

import (
	"context"
	"sync"

	"github.com/heartmarshall/flashcards-backend/internal/cache"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

var _ AccountCache = &AccountCacheMock{}

type AccountCacheMock struct {
	GetCardsFunc           func(ctx context.Context, cardSetID string) ([]domain.Card, error)
	GetProgressFunc        func(cardSetID string) (domain.CardSetProgress, bool)
	GetAllProgressFunc     func() map[string]domain.CardSetProgress
	SaveSessionResultsFunc func(ctx context.Context, save cache.SessionSave) error
	ResetCardSetFunc       func(ctx context.Context, cardSetID string) (domain.CardSetProgress, error)
	ForceSyncNowFunc       func(ctx context.Context) error
	StatsFunc              func() domain.CacheStats

	UpdateProfileOptimisticFunc func(update domain.ProfileUpdate) error

	calls struct {
		GetCards []struct {
			Ctx       context.Context
			CardSetID string
		}
		GetProgress []struct {
			CardSetID string
		}
		GetAllProgress     []struct{}
		SaveSessionResults []struct {
			Ctx  context.Context
			Save cache.SessionSave
		}
		ResetCardSet []struct {
			Ctx       context.Context
			CardSetID string
		}
		ForceSyncNow []struct {
			Ctx context.Context
		}
		Stats                   []struct{}
		UpdateProfileOptimistic []struct {
			Update domain.ProfileUpdate
		}
	}
	lockGetCards           sync.RWMutex
	lockGetProgress        sync.RWMutex
	lockGetAllProgress     sync.RWMutex
	lockSaveSessionResults sync.RWMutex
	lockResetCardSet       sync.RWMutex
	lockForceSyncNow       sync.RWMutex
	lockStats              sync.RWMutex

	lockUpdateProfileOptimistic sync.RWMutex
}

func (mock *AccountCacheMock) GetCards(ctx context.Context, cardSetID string) ([]domain.Card, error) {
	if mock.GetCardsFunc == nil {
		panic("AccountCacheMock.GetCardsFunc: method is nil but AccountCache.GetCards was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		CardSetID string
	}{Ctx: ctx, CardSetID: cardSetID}
	mock.lockGetCards.Lock()
	mock.calls.GetCards = append(mock.calls.GetCards, callInfo)
	mock.lockGetCards.Unlock()
	return mock.GetCardsFunc(ctx, cardSetID)
}

func (mock *AccountCacheMock) GetCardsCalls() []struct {
	Ctx       context.Context
	CardSetID string
} {
	mock.lockGetCards.RLock()
	defer mock.lockGetCards.RUnlock()
	return mock.calls.GetCards
}

func (mock *AccountCacheMock) GetProgress(cardSetID string) (domain.CardSetProgress, bool) {
	if mock.GetProgressFunc == nil {
		panic("AccountCacheMock.GetProgressFunc: method is nil but AccountCache.GetProgress was just called")
	}
	mock.lockGetProgress.Lock()
	mock.calls.GetProgress = append(mock.calls.GetProgress, struct{ CardSetID string }{CardSetID: cardSetID})
	mock.lockGetProgress.Unlock()
	return mock.GetProgressFunc(cardSetID)
}

func (mock *AccountCacheMock) GetProgressCalls() []struct{ CardSetID string } {
	mock.lockGetProgress.RLock()
	defer mock.lockGetProgress.RUnlock()
	return mock.calls.GetProgress
}

func (mock *AccountCacheMock) GetAllProgress() map[string]domain.CardSetProgress {
	if mock.GetAllProgressFunc == nil {
		panic("AccountCacheMock.GetAllProgressFunc: method is nil but AccountCache.GetAllProgress was just called")
	}
	mock.lockGetAllProgress.Lock()
	mock.calls.GetAllProgress = append(mock.calls.GetAllProgress, struct{}{})
	mock.lockGetAllProgress.Unlock()
	return mock.GetAllProgressFunc()
}

func (mock *AccountCacheMock) GetAllProgressCalls() []struct{} {
	mock.lockGetAllProgress.RLock()
	defer mock.lockGetAllProgress.RUnlock()
	return mock.calls.GetAllProgress
}

func (mock *AccountCacheMock) SaveSessionResults(ctx context.Context, save cache.SessionSave) error {
	if mock.SaveSessionResultsFunc == nil {
		panic("AccountCacheMock.SaveSessionResultsFunc: method is nil but AccountCache.SaveSessionResults was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Save cache.SessionSave
	}{Ctx: ctx, Save: save}
	mock.lockSaveSessionResults.Lock()
	mock.calls.SaveSessionResults = append(mock.calls.SaveSessionResults, callInfo)
	mock.lockSaveSessionResults.Unlock()
	return mock.SaveSessionResultsFunc(ctx, save)
}

func (mock *AccountCacheMock) SaveSessionResultsCalls() []struct {
	Ctx  context.Context
	Save cache.SessionSave
} {
	mock.lockSaveSessionResults.RLock()
	defer mock.lockSaveSessionResults.RUnlock()
	return mock.calls.SaveSessionResults
}

func (mock *AccountCacheMock) ResetCardSet(ctx context.Context, cardSetID string) (domain.CardSetProgress, error) {
	if mock.ResetCardSetFunc == nil {
		panic("AccountCacheMock.ResetCardSetFunc: method is nil but AccountCache.ResetCardSet was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		CardSetID string
	}{Ctx: ctx, CardSetID: cardSetID}
	mock.lockResetCardSet.Lock()
	mock.calls.ResetCardSet = append(mock.calls.ResetCardSet, callInfo)
	mock.lockResetCardSet.Unlock()
	return mock.ResetCardSetFunc(ctx, cardSetID)
}

func (mock *AccountCacheMock) ResetCardSetCalls() []struct {
	Ctx       context.Context
	CardSetID string
} {
	mock.lockResetCardSet.RLock()
	defer mock.lockResetCardSet.RUnlock()
	return mock.calls.ResetCardSet
}

func (mock *AccountCacheMock) ForceSyncNow(ctx context.Context) error {
	if mock.ForceSyncNowFunc == nil {
		panic("AccountCacheMock.ForceSyncNowFunc: method is nil but AccountCache.ForceSyncNow was just called")
	}
	mock.lockForceSyncNow.Lock()
	mock.calls.ForceSyncNow = append(mock.calls.ForceSyncNow, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockForceSyncNow.Unlock()
	return mock.ForceSyncNowFunc(ctx)
}

func (mock *AccountCacheMock) ForceSyncNowCalls() []struct{ Ctx context.Context } {
	mock.lockForceSyncNow.RLock()
	defer mock.lockForceSyncNow.RUnlock()
	return mock.calls.ForceSyncNow
}

func (mock *AccountCacheMock) Stats() domain.CacheStats {
	if mock.StatsFunc == nil {
		panic("AccountCacheMock.StatsFunc: method is nil but AccountCache.Stats was just called")
	}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, struct{}{})
	mock.lockStats.Unlock()
	return mock.StatsFunc()
}

func (mock *AccountCacheMock) StatsCalls() []struct{} {
	mock.lockStats.RLock()
	defer mock.lockStats.RUnlock()
	return mock.calls.Stats
}

func (mock *AccountCacheMock) UpdateProfileOptimistic(update domain.ProfileUpdate) error {
	if mock.UpdateProfileOptimisticFunc == nil {
		panic("AccountCacheMock.UpdateProfileOptimisticFunc: method is nil but AccountCache.UpdateProfileOptimistic was just called")
	}
	mock.lockUpdateProfileOptimistic.Lock()
	mock.calls.UpdateProfileOptimistic = append(mock.calls.UpdateProfileOptimistic, struct {
		Update domain.ProfileUpdate
	}{Update: update})
	mock.lockUpdateProfileOptimistic.Unlock()
	return mock.UpdateProfileOptimisticFunc(update)
}

func (mock *AccountCacheMock) UpdateProfileOptimisticCalls() []struct {
	Update domain.ProfileUpdate
} {
	mock.lockUpdateProfileOptimistic.RLock()
	defer mock.lockUpdateProfileOptimistic.RUnlock()
	return mock.calls.UpdateProfileOptimistic
}
