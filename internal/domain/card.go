package domain

import "time"

// Easiness factor bounds and the starting value for unseen cards.
const (
	MinEasinessFactor     = 1.3
	MaxEasinessFactor     = 2.5
	DefaultEasinessFactor = 2.5
)

// RecallState is the SM-2 scheduling state of a single card.
type RecallState struct {
	EasinessFactor float64    `json:"easinessFactor"`
	Repetitions    int        `json:"repetitions"`
	Interval       int        `json:"interval"`
	NextReviewDate *time.Time `json:"nextReviewDate,omitempty"`
	LastReviewDate *time.Time `json:"lastReviewDate,omitempty"`
	TotalReviews   int        `json:"totalReviews"`
	CorrectStreak  int        `json:"correctStreak"`
	AverageQuality float64    `json:"averageQuality"`
	IsNew          bool       `json:"isNew"`
}

// NewRecallState returns the state of a card that has never been reviewed.
func NewRecallState() RecallState {
	return RecallState{
		EasinessFactor: DefaultEasinessFactor,
		IsNew:          true,
	}
}

// IsReviewed reports whether the card was ever given a graded rating.
func (s RecallState) IsReviewed() bool { return s.TotalReviews > 0 }

// IsMastered reports whether the card reached the maximum easiness factor
// with an interval of at least three weeks.
func (s RecallState) IsMastered() bool {
	return s.EasinessFactor >= MaxEasinessFactor && s.Interval >= 21
}

// FlashcardData is the static content of a card as supplied by seed data.
type FlashcardData struct {
	ID    string `json:"id"    yaml:"id"    validate:"required"`
	Front string `json:"front" yaml:"front" validate:"required"`
	Back  string `json:"back"  yaml:"back"  validate:"required"`
}

// Card is a flashcard enriched with its recall state.
type Card struct {
	ID        string `json:"id"`
	CardSetID string `json:"cardSetId"`
	Front     string `json:"front"`
	Back      string `json:"back"`
	RecallState
}

// NewCard builds an unreviewed card for the given card set from seed content.
func NewCard(cardSetID string, data FlashcardData) Card {
	return Card{
		ID:          data.ID,
		CardSetID:   cardSetID,
		Front:       data.Front,
		Back:        data.Back,
		RecallState: NewRecallState(),
	}
}

// IsDue returns true if the card needs review on asOf's calendar day.
//   - New cards are always due.
//   - Other cards are due when NextReviewDate is on or before that day.
func (c *Card) IsDue(asOf time.Time) bool {
	if c.IsNew || c.NextReviewDate == nil {
		return true
	}
	next := DayStart(c.NextReviewDate.In(asOf.Location()))
	return !next.After(DayStart(asOf))
}

// CardSet is the single remote document holding every card of a set.
type CardSet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Cards     []Card    `json:"cards"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CardSetSeed is the initial content of a card set before it is persisted.
type CardSetSeed struct {
	ID    string          `json:"id"    yaml:"id"    validate:"required"`
	Title string          `json:"title" yaml:"title"`
	Cards []FlashcardData `json:"cards" yaml:"cards" validate:"required,min=1,dive"`
}

// NewCardSet materializes a seed into a card set of unreviewed cards.
func NewCardSet(seed CardSetSeed, now time.Time) CardSet {
	cards := make([]Card, 0, len(seed.Cards))
	for _, c := range seed.Cards {
		cards = append(cards, NewCard(seed.ID, c))
	}
	return CardSet{
		ID:        seed.ID,
		Title:     seed.Title,
		Cards:     cards,
		UpdatedAt: now,
	}
}

// DayStart truncates t to midnight in t's own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b.In(a.Location())))
}
