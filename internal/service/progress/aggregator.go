// Package progress folds per-card review outcomes into the consolidated
// card-set summary and checks proposed summaries before they are persisted.
package progress

import (
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// FoldInput holds everything needed to compute a card-set summary. Pure value.
type FoldInput struct {
	CardSetID string
	// Pending maps card id to the recall state proposed by the current session.
	Pending map[string]domain.RecallState
	// Cards is the authoritative card list as last persisted.
	Cards []domain.Card
	// Previous is the last known summary; only its CreatedAt is carried over.
	Previous *domain.CardSetProgress
	Now      time.Time
}

// Fold applies pending updates on top of the authoritative cards and returns
// the end-of-session summary. Pending entries for unknown cards are ignored.
// An empty Pending map yields the summary of the prior state.
func Fold(input FoldInput) domain.CardSetProgress {
	var reviewed, mastered, today int

	for _, card := range ApplyPending(input.Cards, input.Pending) {
		if !card.IsReviewed() {
			continue
		}
		reviewed++
		if card.IsMastered() {
			mastered++
		}
		if card.LastReviewDate != nil && domain.SameDay(input.Now, *card.LastReviewDate) {
			today++
		}
	}

	total := len(input.Cards)
	createdAt := input.Now
	if input.Previous != nil && !input.Previous.CreatedAt.IsZero() {
		createdAt = input.Previous.CreatedAt
	}

	return domain.CardSetProgress{
		CardSetID:          input.CardSetID,
		TotalCards:         total,
		ReviewedCards:      reviewed,
		ProgressPercentage: domain.ProgressPercentage(reviewed, total),
		MasteredCards:      mastered,
		NeedPracticeCards:  reviewed - mastered,
		ReviewedToday:      today,
		CreatedAt:          createdAt,
		UpdatedAt:          input.Now,
	}
}

// ApplyPending returns a copy of cards with each pending recall state merged in.
func ApplyPending(cards []domain.Card, pending map[string]domain.RecallState) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, card := range cards {
		if state, ok := pending[card.ID]; ok {
			card.RecallState = state
		}
		out[i] = card
	}
	return out
}

// Baseline returns the number of cards already reviewed before any pending update.
func Baseline(cards []domain.Card) int {
	n := 0
	for _, card := range cards {
		if card.IsReviewed() {
			n++
		}
	}
	return n
}
