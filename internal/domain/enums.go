package domain

// Quality is the learner's self-assessed recall quality. Only a restricted
// subset of the classic 0–5 SM-2 scale is produced by the review UI.
type Quality int

const (
	QualitySkip Quality = 0
	QualityHard Quality = 2
	QualityGood Quality = 4
	QualityEasy Quality = 5
)

// passThreshold is the lowest quality counted as a correct answer.
const passThreshold = 3

func (q Quality) IsValid() bool {
	switch q {
	case QualitySkip, QualityHard, QualityGood, QualityEasy:
		return true
	}
	return false
}

// IsSkip reports whether the rating means "show me this card again later".
func (q Quality) IsSkip() bool { return q == QualitySkip }

// IsCorrect reports whether q counts as a successful recall.
func (q Quality) IsCorrect() bool { return q >= passThreshold }

func (q Quality) String() string {
	switch q {
	case QualitySkip:
		return "SKIP"
	case QualityHard:
		return "HARD"
	case QualityGood:
		return "GOOD"
	case QualityEasy:
		return "EASY"
	}
	return "UNKNOWN"
}

// ParseQuality accepts the UI action names used by the REST layer.
func ParseQuality(s string) (Quality, bool) {
	switch s {
	case "SKIP", "AGAIN", "skip", "again":
		return QualitySkip, true
	case "HARD", "hard":
		return QualityHard, true
	case "GOOD", "good":
		return QualityGood, true
	case "EASY", "easy":
		return QualityEasy, true
	}
	return 0, false
}

// SessionState represents the lifecycle state of an in-memory review session.
type SessionState string

const (
	SessionStateNotStarted SessionState = "NOT_STARTED"
	SessionStateActive     SessionState = "ACTIVE"
	SessionStateComplete   SessionState = "COMPLETE"
)

func (s SessionState) String() string { return string(s) }

// SyncOpKind identifies what a queued sync operation writes.
type SyncOpKind string

const (
	SyncOpProgress SyncOpKind = "progress"
	SyncOpProfile  SyncOpKind = "profile"
)

func (k SyncOpKind) String() string { return string(k) }

func (k SyncOpKind) IsValid() bool {
	switch k {
	case SyncOpProgress, SyncOpProfile:
		return true
	}
	return false
}

// CacheState is the lifecycle state of an account cache.
type CacheState string

const (
	CacheStateEmpty   CacheState = "EMPTY"
	CacheStateLoaded  CacheState = "LOADED"
	CacheStateDirty   CacheState = "DIRTY"
	CacheStateSyncing CacheState = "SYNCING"
)

func (s CacheState) String() string { return string(s) }
