package cache

import (
	"errors"
	"fmt"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// ErrNotLoaded is returned by mutating calls made before Initialize or after Clear.
var ErrNotLoaded = errors.New("account cache not loaded")

// SyncError reports queued operations dropped after exhausting their retries
// or failing with a non-retryable error.
type SyncError struct {
	Dropped []domain.SyncOperation
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync: %d operations dropped: %v", len(e.Dropped), e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// SaveStep identifies a step of the session-completion save.
type SaveStep int

const (
	StepEnsureCardSet SaveStep = iota + 1
	StepWriteCards
	StepWriteProgress
)

func (s SaveStep) String() string {
	switch s {
	case StepEnsureCardSet:
		return "ensure card set"
	case StepWriteCards:
		return "write cards"
	case StepWriteProgress:
		return "write progress"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// SaveError reports the step at which a session-completion save halted.
// Earlier steps have been persisted; later ones were not attempted.
type SaveError struct {
	Step      SaveStep
	CardSetID string
	Err       error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save session results for %s: step %d (%s): %v", e.CardSetID, int(e.Step), e.Step, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
