// Package srs implements the spaced-repetition scheduling engine: the
// interval ladder, the review state transition, and the shared "due for
// review" predicate. All functions are pure; "now" is passed in by the
// caller and must be sampled once per transition.
package srs

import "time"

// Intervals is the review interval ladder in days. An entry at level i
// waits Intervals[i] days until its next review; climbing past the last
// rung masters the entry.
var Intervals = [...]int64{1, 3, 7, 14, 30}

// MaxLevel is the last valid index into the interval ladder.
const MaxLevel = len(Intervals) - 1

// MSPerDay is the length of a day in Unix milliseconds.
const MSPerDay int64 = 24 * 60 * 60 * 1000

// Result is the scheduling state produced by a review transition.
type Result struct {
	// Level is the new ladder position.
	Level int
	// NextReviewAt is the next review instant in Unix milliseconds,
	// always a JST day boundary. Mastered entries still receive a value
	// (the longest interval) but it is never consulted.
	NextReviewAt int64
	// Mastered is true once Level has climbed past MaxLevel.
	Mastered bool
}

// Review computes the scheduling state after reviewing an entry at the
// given level. It is total over level >= 0; callers validate stored
// levels before invoking it.
//
// A remembered entry climbs one rung and is mastered past the top one.
// A forgotten entry drops to level 0 but is scheduled with the second
// rung rather than immediately: the original product behavior is a soft
// reset, never "due now".
func Review(level int, remembered bool, now time.Time) Result {
	if !remembered {
		return Result{Level: 0, NextReviewAt: NextReviewAt(1, now)}
	}
	next := level + 1
	if next > MaxLevel+1 {
		next = MaxLevel + 1
	}
	return Result{
		Level:        next,
		NextReviewAt: NextReviewAt(next, now),
		Mastered:     next > MaxLevel,
	}
}

// NextReviewAt returns the review instant for an entry at the given
// level: the start of today plus the level's ladder interval. Levels at
// or beyond MaxLevel use the longest configured interval.
func NextReviewAt(level int, now time.Time) int64 {
	i := level
	if i > MaxLevel {
		i = MaxLevel
	}
	return StartOfDay(now) + Intervals[i]*MSPerDay
}

// Due reports whether an entry requires review at the given instant
// (Unix milliseconds). Mastered entries are never due; an entry that has
// never been scheduled (nil nextReviewAt) is always due.
//
// Both the interactive review queue and the notification due count go
// through this single predicate so the two can never disagree.
func Due(mastered bool, nextReviewAt *int64, nowMS int64) bool {
	if mastered {
		return false
	}
	if nextReviewAt == nil {
		return true
	}
	return *nextReviewAt <= nowMS
}
