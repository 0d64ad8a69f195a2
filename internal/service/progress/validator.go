package progress

import (
	"fmt"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// Result is the outcome of checking a proposed summary.
type Result struct {
	IsValid bool
	Errors  []string
}

// Err converts a failed Result into a *domain.ValidationError, or nil.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	errs := make([]domain.FieldError, 0, len(r.Errors))
	for _, msg := range r.Errors {
		errs = append(errs, domain.FieldError{Field: "progress", Message: msg})
	}
	return domain.NewValidationErrors(errs)
}

// Check verifies a proposed summary for bounds, internal consistency and
// monotonicity against the authoritative cards. Callers abort persistence on
// any failure. The explicit reset path never calls Check.
func Check(proposed domain.CardSetProgress, pending map[string]domain.RecallState, cards []domain.Card) Result {
	var errs []string

	if proposed.ProgressPercentage < 0 || proposed.ProgressPercentage > 100 {
		errs = append(errs, fmt.Sprintf("progressPercentage %d outside [0,100]", proposed.ProgressPercentage))
	}
	if proposed.TotalCards < 0 {
		errs = append(errs, fmt.Sprintf("totalCards %d is negative", proposed.TotalCards))
	}
	if proposed.ReviewedCards < 0 {
		errs = append(errs, fmt.Sprintf("reviewedCards %d is negative", proposed.ReviewedCards))
	}
	if proposed.ReviewedCards > proposed.TotalCards {
		errs = append(errs, fmt.Sprintf("reviewedCards %d exceeds totalCards %d", proposed.ReviewedCards, proposed.TotalCards))
	}
	if proposed.MasteredCards+proposed.NeedPracticeCards != proposed.ReviewedCards {
		errs = append(errs, fmt.Sprintf("masteredCards %d + needPracticeCards %d != reviewedCards %d",
			proposed.MasteredCards, proposed.NeedPracticeCards, proposed.ReviewedCards))
	}
	if want := domain.ProgressPercentage(proposed.ReviewedCards, proposed.TotalCards); proposed.ProgressPercentage != want &&
		proposed.ProgressPercentage >= 0 && proposed.ProgressPercentage <= 100 {
		errs = append(errs, fmt.Sprintf("progressPercentage %d does not match %d/%d (want %d)",
			proposed.ProgressPercentage, proposed.ReviewedCards, proposed.TotalCards, want))
	}

	if baseline := Baseline(cards); proposed.ReviewedCards < baseline {
		errs = append(errs, fmt.Sprintf("reviewedCards regressed from %d to %d", baseline, proposed.ReviewedCards))
	}

	known := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		known[c.ID] = struct{}{}
	}
	for id, state := range pending {
		if _, ok := known[id]; !ok {
			errs = append(errs, fmt.Sprintf("pending progress for unknown card %q", id))
			continue
		}
		if state.TotalReviews <= 0 {
			errs = append(errs, fmt.Sprintf("pending progress for card %q has no reviews", id))
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}
