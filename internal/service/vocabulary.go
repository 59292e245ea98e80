// Package service provides business-logic services for vocabulary
// management, authentication, search, and notifications, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/mshiraki/tangocho/internal/models"
	"github.com/mshiraki/tangocho/internal/srs"
)

// VocabularyRepository defines the persistence operations needed by the
// VocabularyService.
type VocabularyRepository interface {
	// Create inserts a new vocabulary entry.
	Create(ctx context.Context, entry models.VocabularyEntry) error
	// GetByID fetches a single entry owned by the user, or
	// models.ErrNotFound.
	GetByID(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error)
	// ListByUser retrieves all entries belonging to the specified user.
	ListByUser(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error)
	// UpdateSchedule persists the scheduling state of a reviewed entry.
	UpdateSchedule(ctx context.Context, entry models.VocabularyEntry) error
	// Delete removes the entry with the given ID for the specified user.
	Delete(ctx context.Context, userLogin, id string) error
}

// VocabularyService implements vocabulary management and the review
// scheduling operations on top of the srs engine.
type VocabularyService struct {
	// repo is the underlying persistence repository.
	repo VocabularyRepository
	// clock supplies "now" for all scheduling decisions.
	clock Clock
}

// NewVocabularyService constructs a VocabularyService with the provided
// repository and clock.
func NewVocabularyService(repo VocabularyRepository, clock Clock) *VocabularyService {
	return &VocabularyService{repo: repo, clock: clock}
}

// Save stores an analyzed search result as a new vocabulary entry for
// the user. A fresh entry starts at level 0 with no scheduled review,
// which makes it due immediately.
func (s *VocabularyService) Save(ctx context.Context, userLogin string, result models.SearchResult) (*models.VocabularyEntry, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}

	entry := models.VocabularyEntry{
		ID:        uuid.NewString(),
		UserLogin: userLogin,
		Word:      result.Word,
		Phonetic:  result.Phonetic,
		Meaning:   result.Meaning,
		Example:   result.Example,
		ExampleJP: result.ExampleJP,
		CreatedAt: s.clock.Now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all of the user's vocabulary entries, newest first.
func (s *VocabularyService) List(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userLogin)
}

// Delete removes one of the user's entries.
func (s *VocabularyService) Delete(ctx context.Context, userLogin, id string) error {
	if userLogin == "" {
		return models.ErrUnauthenticated
	}
	return s.repo.Delete(ctx, userLogin, id)
}

// Review applies a review outcome to an entry and persists the new
// scheduling state in a single write. The clock is sampled once so a
// transition can never straddle the midnight boundary.
func (s *VocabularyService) Review(ctx context.Context, userLogin, id string, remembered bool) (*models.VocabularyEntry, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}

	entry, err := s.repo.GetByID(ctx, userLogin, id)
	if err != nil {
		return nil, err
	}
	if entry.SRSLevel < 0 {
		// A negative level can only come from a broken writer; refuse
		// rather than clamp.
		return nil, fmt.Errorf("entry %s has invalid srs level %d", entry.ID, entry.SRSLevel)
	}

	now := s.clock.Now()
	result := srs.Review(entry.SRSLevel, remembered, now)

	entry.SRSLevel = result.Level
	entry.NextReviewAt = &result.NextReviewAt
	entry.IsMastered = result.Mastered
	entry.ReviewCount++
	reviewedAt := now.UnixMilli()
	entry.LastReviewedAt = &reviewedAt

	if err := s.repo.UpdateSchedule(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Unmaster resets a mastered entry back to level 0 and makes it due
// today, not tomorrow. The review counter and last-review time are left
// untouched; un-mastering is not a review. Calling it twice yields the
// same state as calling it once.
func (s *VocabularyService) Unmaster(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}

	entry, err := s.repo.GetByID(ctx, userLogin, id)
	if err != nil {
		return nil, err
	}

	startOfToday := srs.StartOfDay(s.clock.Now())
	entry.SRSLevel = 0
	entry.NextReviewAt = &startOfToday
	entry.IsMastered = false

	if err := s.repo.UpdateSchedule(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DueEntries returns the user's entries that require review now,
// ordered by scheduled time ascending with never-reviewed entries
// first.
func (s *VocabularyService) DueEntries(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}

	entries, err := s.repo.ListByUser(ctx, userLogin)
	if err != nil {
		return nil, err
	}

	nowMS := s.clock.Now().UnixMilli()
	due := make([]models.VocabularyEntry, 0)
	for _, entry := range entries {
		if srs.Due(entry.IsMastered, entry.NextReviewAt, nowMS) {
			due = append(due, entry)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].NextReviewAt, due[j].NextReviewAt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return *a < *b
		}
	})
	return due, nil
}

// DueCount returns the number of entries requiring review now. It is
// defined as the length of DueEntries so the notification job and the
// interactive queue can never disagree on membership.
func (s *VocabularyService) DueCount(ctx context.Context, userLogin string) (int, error) {
	due, err := s.DueEntries(ctx, userLogin)
	if err != nil {
		return 0, err
	}
	return len(due), nil
}

// Stats aggregates the user's learning progress: totals, mastery rate,
// today's review count, and the consecutive-day streak.
func (s *VocabularyService) Stats(ctx context.Context, userLogin string) (*models.StudyStats, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}

	entries, err := s.repo.ListByUser(ctx, userLogin)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	stats := models.StudyStats{TotalWords: len(entries)}

	todayStart := srs.StartOfDay(now)
	todayEnd := todayStart + srs.MSPerDay - 1
	for _, entry := range entries {
		if entry.IsMastered {
			stats.MasteredWords++
		}
		stats.TotalReviews += entry.ReviewCount
		if entry.LastReviewedAt != nil && *entry.LastReviewedAt >= todayStart && *entry.LastReviewedAt <= todayEnd {
			stats.TodayReviews++
		}
	}
	stats.LearningWords = stats.TotalWords - stats.MasteredWords
	if stats.TotalWords > 0 {
		stats.MasteryRate = int(math.Round(float64(stats.MasteredWords) / float64(stats.TotalWords) * 100))
	}
	stats.StreakDays = streak(entries, now.UnixMilli())

	return &stats, nil
}

// ReviewHistory returns the per-day review counts for the last N days,
// oldest day first.
func (s *VocabularyService) ReviewHistory(ctx context.Context, userLogin string, days int) ([]models.DailyReviews, error) {
	if userLogin == "" {
		return nil, models.ErrUnauthenticated
	}

	entries, err := s.repo.ListByUser(ctx, userLogin)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		if entry.LastReviewedAt != nil {
			counts[srs.DateKey(*entry.LastReviewedAt)]++
		}
	}

	nowMS := s.clock.Now().UnixMilli()
	history := make([]models.DailyReviews, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := srs.DateKey(nowMS - int64(i)*srs.MSPerDay)
		history = append(history, models.DailyReviews{Date: date, Count: counts[date]})
	}
	return history, nil
}

// streak counts consecutive JST days with at least one review, walking
// backwards from today. A day without reviews ends the streak, except
// today itself, which may still be in progress.
func streak(entries []models.VocabularyEntry, nowMS int64) int {
	reviewDates := make(map[string]struct{})
	for _, entry := range entries {
		if entry.LastReviewedAt != nil {
			reviewDates[srs.DateKey(*entry.LastReviewedAt)] = struct{}{}
		}
	}
	if len(reviewDates) == 0 {
		return 0
	}

	count := 0
	for i := 0; i < 365; i++ {
		date := srs.DateKey(nowMS - int64(i)*srs.MSPerDay)
		if _, ok := reviewDates[date]; ok {
			count++
		} else if i > 0 {
			break
		}
	}
	return count
}
