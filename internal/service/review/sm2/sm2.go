// Package sm2 implements the SuperMemo-2 spaced repetition algorithm
// restricted to the four ratings the review UI produces.
package sm2

import (
	"math"
	"time"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// Result is the outcome of scheduling one rating.
type Result struct {
	domain.RecallState

	// ShouldRepeatToday is set for incorrect answers: the card is scheduled
	// for tomorrow but the learner is expected to see it again this session.
	ShouldRepeatToday bool
}

// Compute applies a graded rating to the current recall state. It is a pure
// function: no clock, no I/O. Skips are handled by the caller and never reach
// Compute; any quality below 3 is treated as an incorrect answer.
func Compute(current domain.RecallState, q domain.Quality, reviewDate time.Time) Result {
	day := domain.DayStart(reviewDate)
	next := current

	next.EasinessFactor = NextEasinessFactor(current.EasinessFactor, q)

	var repeat bool
	if q.IsCorrect() {
		next.Interval = Interval(current.Repetitions, next.EasinessFactor)
		next.Repetitions = current.Repetitions + 1
		next.CorrectStreak = current.CorrectStreak + 1
	} else {
		next.Repetitions = 0
		next.Interval = 1
		next.CorrectStreak = 0
		repeat = true
	}

	nextReview := day.AddDate(0, 0, next.Interval)
	next.NextReviewDate = &nextReview
	lastReview := day
	next.LastReviewDate = &lastReview

	next.TotalReviews = current.TotalReviews + 1
	if current.TotalReviews == 0 {
		next.AverageQuality = float64(q)
	} else {
		next.AverageQuality = (current.AverageQuality*float64(current.TotalReviews) + float64(q)) / float64(next.TotalReviews)
	}
	next.IsNew = false

	return Result{RecallState: next, ShouldRepeatToday: repeat}
}

// NextEasinessFactor applies the SM-2 easiness update and clamps the result
// to [MinEasinessFactor, MaxEasinessFactor].
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
func NextEasinessFactor(ef float64, q domain.Quality) float64 {
	d := 5 - float64(q)
	return clamp(ef+(0.1-d*(0.08+d*0.02)), domain.MinEasinessFactor, domain.MaxEasinessFactor)
}

// Interval returns the review interval in days after n previous consecutive
// correct answers: f(0)=1, f(1)=6, f(n)=round(f(n-1)*ef).
func Interval(n int, ef float64) int {
	switch {
	case n <= 0:
		return 1
	case n == 1:
		return 6
	}
	interval := 6
	for i := 2; i <= n; i++ {
		interval = int(math.Round(float64(interval) * ef))
	}
	return interval
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
