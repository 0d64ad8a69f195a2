package review

import (
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

const maxSessionCards = 500

// StartSessionInput holds the parameters for starting a review session.
type StartSessionInput struct {
	CardSetID string
	// DueOnly restricts the session to cards due today.
	DueOnly bool
	// Limit caps the number of cards; 0 means all.
	Limit int
}

// Validate checks all fields and collects all errors.
func (i *StartSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.CardSetID == "" {
		errs = append(errs, domain.FieldError{Field: "card_set_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > maxSessionCards {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RateInput holds the parameters for rating the current card.
type RateInput struct {
	CardID  string
	Quality domain.Quality
}

// Validate checks all fields and collects all errors.
func (i *RateInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == "" {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if !i.Quality.IsValid() {
		errs = append(errs, domain.FieldError{Field: "quality", Message: "must be SKIP, HARD, GOOD or EASY"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetDueCardsInput holds the parameters for listing due cards.
type GetDueCardsInput struct {
	CardSetID string
	Limit     int
}

// Validate checks all fields and collects all errors.
func (i *GetDueCardsInput) Validate() error {
	var errs []domain.FieldError

	if i.CardSetID == "" {
		errs = append(errs, domain.FieldError{Field: "card_set_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > maxSessionCards {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
