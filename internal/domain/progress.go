package domain

import (
	"math"
	"time"
)

// CardSetProgress is the consolidated per-account summary of one card set.
type CardSetProgress struct {
	CardSetID          string    `json:"cardSetId"`
	TotalCards         int       `json:"totalCards"`
	ReviewedCards      int       `json:"reviewedCards"`
	ProgressPercentage int       `json:"progressPercentage"`
	MasteredCards      int       `json:"masteredCards"`
	NeedPracticeCards  int       `json:"needPracticeCards"`
	ReviewedToday      int       `json:"reviewedToday"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProgressPercentage returns round(100 * reviewed / total), or 0 for an empty set.
func ProgressPercentage(reviewed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(reviewed) / float64(total)))
}

// CurrentSchemaVersion marks a consolidated account profile.
// Version 1 (or a missing marker) is the fragmented per-set layout.
const CurrentSchemaVersion = 2

// Profile is the consolidated account document.
type Profile struct {
	AccountID        string                     `json:"accountId"`
	DisplayName      string                     `json:"displayName,omitempty"`
	Email            string                     `json:"email,omitempty"`
	SchemaVersion    int                        `json:"schemaVersion"`
	CardSetsProgress map[string]CardSetProgress `json:"cardSetsProgress"`
	LastActiveAt     *time.Time                 `json:"lastActiveAt,omitempty"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// ProfileUpdate carries the identity fields an optimistic profile update may change.
type ProfileUpdate struct {
	DisplayName  *string    `json:"displayName,omitempty"`
	Email        *string    `json:"email,omitempty"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

// LegacyProgress is one document of the pre-consolidation layout
// (accounts/{id}/cardSetProgress/{cardSetId}).
type LegacyProgress struct {
	CardSetID          string     `json:"cardSetId"          validate:"required"`
	TotalCards         int        `json:"totalCards"         validate:"min=0"`
	ReviewedCards      int        `json:"reviewedCards"      validate:"min=0,ltefield=TotalCards"`
	ProgressPercentage int        `json:"progressPercentage" validate:"min=0,max=100"`
	MasteredCards      int        `json:"masteredCards"      validate:"min=0"`
	NeedPracticeCards  int        `json:"needPracticeCards"  validate:"min=0"`
	ReviewedToday      int        `json:"reviewedToday"      validate:"min=0"`
	LastReviewDate     *time.Time `json:"lastReviewDate,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// ToProgress converts a legacy record into the consolidated summary shape.
// The percentage is recomputed so the consolidated invariant always holds.
// UpdatedAt stays zero when the record carries neither updatedAt nor
// lastReviewDate, so it never outranks a consolidated entry.
func (l LegacyProgress) ToProgress(now time.Time) CardSetProgress {
	p := CardSetProgress{
		CardSetID:          l.CardSetID,
		TotalCards:         l.TotalCards,
		ReviewedCards:      l.ReviewedCards,
		ProgressPercentage: ProgressPercentage(l.ReviewedCards, l.TotalCards),
		MasteredCards:      l.MasteredCards,
		NeedPracticeCards:  l.NeedPracticeCards,
		ReviewedToday:      l.ReviewedToday,
		CreatedAt:          now,
	}
	if l.CreatedAt != nil {
		p.CreatedAt = *l.CreatedAt
	}
	switch {
	case l.UpdatedAt != nil:
		p.UpdatedAt = *l.UpdatedAt
	case l.LastReviewDate != nil:
		p.UpdatedAt = *l.LastReviewDate
	}
	return p
}

// SyncOperation is a queued intent to write local state to the remote store.
// Exactly one payload field is set, matching Kind.
type SyncOperation struct {
	Kind       SyncOpKind
	CardSetID  string
	Progress   *CardSetProgress
	Profile    *ProfileUpdate
	Timestamp  time.Time
	RetryCount int
}

// SyncKey identifies operations that supersede each other in the queue.
type SyncKey struct {
	Kind      SyncOpKind
	CardSetID string
}

// Key returns the deduplication key of the operation.
func (op SyncOperation) Key() SyncKey {
	return SyncKey{Kind: op.Kind, CardSetID: op.CardSetID}
}

// CacheStats exposes cache counters for cost auditing.
type CacheStats struct {
	AccountID      string     `json:"accountId"`
	State          CacheState `json:"state"`
	IsDirty        bool       `json:"isDirty"`
	QueueLength    int        `json:"queueLength"`
	Reads          int        `json:"reads"`
	Writes         int        `json:"writes"`
	CachedCardSets int        `json:"cachedCardSets"`
	LastSyncTime   *time.Time `json:"lastSyncTime,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
}
