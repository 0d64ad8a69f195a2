package review

import (
	"maps"
	"slices"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
	"github.com/heartmarshall/flashcards-backend/internal/service/review/sm2"
)

// Session sequences the cards of one review sitting and accumulates the
// proposed recall states. It is not safe for concurrent use; Service
// serializes access per account.
//
// States: NotStarted -> Active -> Complete. A skipped card is appended to
// the end of the order and revisited later in the same session.
type Session struct {
	state     domain.SessionState
	cardSetID string
	cards     []domain.Card
	index     int
	showBack  bool
	startedAt time.Time

	// pending is replaced, never mutated, so snapshots handed out stay valid.
	pending  map[string]domain.RecallState
	reviewed map[string]struct{}

	easy  int
	hard  int
	again int
}

// NewSession returns a session in the NotStarted state.
func NewSession() *Session {
	return &Session{state: domain.SessionStateNotStarted}
}

// Start seeds the session with cards. It is a no-op returning false when
// cards is empty.
func (s *Session) Start(cardSetID string, cards []domain.Card, now time.Time) bool {
	if len(cards) == 0 {
		return false
	}

	*s = Session{
		state:     domain.SessionStateActive,
		cardSetID: cardSetID,
		cards:     slices.Clone(cards),
		startedAt: now,
		pending:   map[string]domain.RecallState{},
		reviewed:  map[string]struct{}{},
	}
	return true
}

// ShowBack flips the current card. It has no effect on the sequence.
func (s *Session) ShowBack() error {
	if s.state != domain.SessionStateActive {
		return domain.ErrSessionNotActive
	}
	s.showBack = true
	return nil
}

// RateResult describes the effect of one rating.
type RateResult struct {
	Card              domain.Card
	Skipped           bool
	ShouldRepeatToday bool
	Complete          bool
}

// Rate applies q to the current card, which must be cardID.
func (s *Session) Rate(cardID string, q domain.Quality, now time.Time) (RateResult, error) {
	if s.state != domain.SessionStateActive {
		return RateResult{}, domain.ErrSessionNotActive
	}
	if !q.IsValid() {
		return RateResult{}, domain.NewValidationError("quality", "must be SKIP, HARD, GOOD or EASY")
	}
	current := s.cards[s.index]
	if current.ID != cardID {
		return RateResult{}, domain.NewValidationError("card_id", "is not the current card")
	}

	var res RateResult
	if q.IsSkip() {
		s.again++
		s.cards = append(s.cards, current)
		res = RateResult{Card: current, Skipped: true}
	} else {
		out := sm2.Compute(current.RecallState, q, now)
		current.RecallState = out.RecallState

		// Later copies in the order (from skips) must see the new state.
		for i := s.index; i < len(s.cards); i++ {
			if s.cards[i].ID == cardID {
				s.cards[i].RecallState = out.RecallState
			}
		}

		next := maps.Clone(s.pending)
		next[cardID] = out.RecallState
		s.pending = next
		s.reviewed[cardID] = struct{}{}

		if q == domain.QualityHard {
			s.hard++
		} else {
			s.easy++
		}
		res = RateResult{Card: current, ShouldRepeatToday: out.ShouldRepeatToday}
	}

	s.index++
	s.showBack = false
	if s.index >= len(s.cards) {
		s.state = domain.SessionStateComplete
	}
	res.Complete = s.state == domain.SessionStateComplete
	return res, nil
}

// Reset returns the session to NotStarted and discards pending progress.
func (s *Session) Reset() {
	*s = Session{state: domain.SessionStateNotStarted}
}

// State returns the lifecycle state.
func (s *Session) State() domain.SessionState { return s.state }

// CardSetID returns the card set under review.
func (s *Session) CardSetID() string { return s.cardSetID }

// Current returns the card to show, if the session is active.
func (s *Session) Current() (domain.Card, bool) {
	if s.state != domain.SessionStateActive {
		return domain.Card{}, false
	}
	return s.cards[s.index], true
}

// Pending returns the proposed recall state per rated card. The map must
// not be modified.
func (s *Session) Pending() map[string]domain.RecallState { return s.pending }

// ReviewedCards is the number of distinct cards given a graded rating.
func (s *Session) ReviewedCards() int { return len(s.reviewed) }

// Snapshot is a read-only view of a session.
type Snapshot struct {
	State         domain.SessionState `json:"state"`
	CardSetID     string              `json:"cardSetId,omitempty"`
	Current       *domain.Card        `json:"current,omitempty"`
	ShowBack      bool                `json:"showBack"`
	Position      int                 `json:"position"`
	TotalInOrder  int                 `json:"totalInOrder"`
	Order         []string            `json:"order,omitempty"`
	ReviewedCards int                 `json:"reviewedCards"`
	EasyCount     int                 `json:"easyCount"`
	HardCount     int                 `json:"hardCount"`
	AgainCount    int                 `json:"againCount"`
	StartedAt     *time.Time          `json:"startedAt,omitempty"`
}

// Snapshot returns a copy of the session's observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:         s.state,
		CardSetID:     s.cardSetID,
		ShowBack:      s.showBack,
		Position:      s.index,
		TotalInOrder:  len(s.cards),
		ReviewedCards: len(s.reviewed),
		EasyCount:     s.easy,
		HardCount:     s.hard,
		AgainCount:    s.again,
	}
	if c, ok := s.Current(); ok {
		snap.Current = &c
	}
	if len(s.cards) > 0 {
		snap.Order = make([]string, len(s.cards))
		for i, c := range s.cards {
			snap.Order[i] = c.ID
		}
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		snap.StartedAt = &t
	}
	return snap
}
