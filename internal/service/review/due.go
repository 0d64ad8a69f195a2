package review

import (
	"slices"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// DueCards returns the cards due on asOf's day: reviewed cards first, most
// overdue first, then new cards in their original order. limit <= 0 means
// no limit.
func DueCards(cards []domain.Card, asOf time.Time, limit int) []domain.Card {
	var review, fresh []domain.Card
	for _, c := range cards {
		if !c.IsDue(asOf) {
			continue
		}
		if c.IsNew || c.NextReviewDate == nil {
			fresh = append(fresh, c)
			continue
		}
		review = append(review, c)
	}

	slices.SortStableFunc(review, func(a, b domain.Card) int {
		return a.NextReviewDate.Compare(*b.NextReviewDate)
	})

	out := append(review, fresh...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
