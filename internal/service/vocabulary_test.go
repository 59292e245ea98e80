package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mshiraki/tangocho/internal/models"
	"github.com/mshiraki/tangocho/internal/service"
	"github.com/mshiraki/tangocho/internal/srs"
)

// fixedClock returns a preset instant.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// now is 2026-03-14 10:30 JST; startOfToday is JST midnight of that day.
var (
	now          = time.Date(2026, 3, 14, 10, 30, 0, 0, srs.JST)
	startOfToday = time.Date(2026, 3, 14, 0, 0, 0, 0, srs.JST).UnixMilli()
	clock        = fixedClock{t: now}
)

type mockVocabRepo struct {
	CreateFunc         func(ctx context.Context, entry models.VocabularyEntry) error
	GetByIDFunc        func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error)
	ListByUserFunc     func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error)
	UpdateScheduleFunc func(ctx context.Context, entry models.VocabularyEntry) error
	DeleteFunc         func(ctx context.Context, userLogin, id string) error
}

func (m *mockVocabRepo) Create(ctx context.Context, entry models.VocabularyEntry) error {
	return m.CreateFunc(ctx, entry)
}
func (m *mockVocabRepo) GetByID(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
	return m.GetByIDFunc(ctx, userLogin, id)
}
func (m *mockVocabRepo) ListByUser(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
	return m.ListByUserFunc(ctx, userLogin)
}
func (m *mockVocabRepo) UpdateSchedule(ctx context.Context, entry models.VocabularyEntry) error {
	return m.UpdateScheduleFunc(ctx, entry)
}
func (m *mockVocabRepo) Delete(ctx context.Context, userLogin, id string) error {
	return m.DeleteFunc(ctx, userLogin, id)
}

func ms(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}

func TestSave(t *testing.T) {
	var created models.VocabularyEntry
	repo := &mockVocabRepo{
		CreateFunc: func(ctx context.Context, entry models.VocabularyEntry) error {
			created = entry
			return nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	result := models.SearchResult{Word: "oblique", Phonetic: "/əˈbliːk/", Meaning: "斜めの"}
	entry, err := svc.Save(context.Background(), "u1", result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected a generated ID")
	}
	if created.UserLogin != "u1" || created.Word != "oblique" {
		t.Errorf("created = %+v; want owner u1, word oblique", created)
	}
	if created.SRSLevel != 0 || created.NextReviewAt != nil || created.IsMastered || created.ReviewCount != 0 {
		t.Errorf("fresh entry has non-initial scheduling state: %+v", created)
	}
	if created.CreatedAt != now.UnixMilli() {
		t.Errorf("CreatedAt = %d; want %d", created.CreatedAt, now.UnixMilli())
	}
}

func TestSave_Unauthenticated(t *testing.T) {
	svc := service.NewVocabularyService(&mockVocabRepo{}, clock)
	_, err := svc.Save(context.Background(), "", models.SearchResult{Word: "w"})
	if !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("error = %v; want models.ErrUnauthenticated", err)
	}
}

func TestReview_Remembered(t *testing.T) {
	stored := models.VocabularyEntry{
		ID: "e1", UserLogin: "u1", Word: "oblique",
		SRSLevel: 2, ReviewCount: 5,
		NextReviewAt: ms(now.Add(-24 * time.Hour)),
	}
	var updated models.VocabularyEntry
	repo := &mockVocabRepo{
		GetByIDFunc: func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
			if userLogin != "u1" || id != "e1" {
				t.Errorf("GetByID args = %q, %q; want u1, e1", userLogin, id)
			}
			entry := stored
			return &entry, nil
		},
		UpdateScheduleFunc: func(ctx context.Context, entry models.VocabularyEntry) error {
			updated = entry
			return nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	entry, err := svc.Review(context.Background(), "u1", "e1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.SRSLevel != 3 {
		t.Errorf("SRSLevel = %d; want 3", entry.SRSLevel)
	}
	if want := startOfToday + 14*srs.MSPerDay; entry.NextReviewAt == nil || *entry.NextReviewAt != want {
		t.Errorf("NextReviewAt = %v; want %d", entry.NextReviewAt, want)
	}
	if entry.IsMastered {
		t.Error("entry should not be mastered at level 3")
	}
	if entry.ReviewCount != 6 {
		t.Errorf("ReviewCount = %d; want 6", entry.ReviewCount)
	}
	if entry.LastReviewedAt == nil || *entry.LastReviewedAt != now.UnixMilli() {
		t.Errorf("LastReviewedAt = %v; want %d", entry.LastReviewedAt, now.UnixMilli())
	}
	if updated.SRSLevel != 3 || updated.ReviewCount != 6 {
		t.Errorf("persisted state = %+v; want level 3, count 6", updated)
	}
}

func TestReview_TopRungMasters(t *testing.T) {
	repo := &mockVocabRepo{
		GetByIDFunc: func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
			return &models.VocabularyEntry{ID: "e1", UserLogin: "u1", SRSLevel: 4}, nil
		},
		UpdateScheduleFunc: func(ctx context.Context, entry models.VocabularyEntry) error {
			return nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	entry, err := svc.Review(context.Background(), "u1", "e1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.SRSLevel != 5 || !entry.IsMastered {
		t.Errorf("got level %d mastered %v; want level 5 mastered", entry.SRSLevel, entry.IsMastered)
	}
}

func TestReview_ForgotSoftResets(t *testing.T) {
	repo := &mockVocabRepo{
		GetByIDFunc: func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
			return &models.VocabularyEntry{ID: "e1", UserLogin: "u1", SRSLevel: 3, ReviewCount: 7}, nil
		},
		UpdateScheduleFunc: func(ctx context.Context, entry models.VocabularyEntry) error {
			return nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	entry, err := svc.Review(context.Background(), "u1", "e1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.SRSLevel != 0 || entry.IsMastered {
		t.Errorf("got level %d mastered %v; want level 0 unmastered", entry.SRSLevel, entry.IsMastered)
	}
	// A forgotten word is rescheduled with the second ladder rung, never
	// "due immediately".
	if want := startOfToday + 3*srs.MSPerDay; entry.NextReviewAt == nil || *entry.NextReviewAt != want {
		t.Errorf("NextReviewAt = %v; want %d", entry.NextReviewAt, want)
	}
	if entry.ReviewCount != 8 {
		t.Errorf("ReviewCount = %d; want 8", entry.ReviewCount)
	}
}

func TestReview_NotFound(t *testing.T) {
	repo := &mockVocabRepo{
		GetByIDFunc: func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
			return nil, models.ErrNotFound
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	_, err := svc.Review(context.Background(), "u1", "ghost", true)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("error = %v; want models.ErrNotFound", err)
	}
}

func TestReview_InvalidStoredLevel(t *testing.T) {
	repo := &mockVocabRepo{
		GetByIDFunc: func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
			return &models.VocabularyEntry{ID: "e1", UserLogin: "u1", SRSLevel: -1}, nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	_, err := svc.Review(context.Background(), "u1", "e1", true)
	if err == nil {
		t.Fatal("expected error for negative stored level")
	}
}

func TestUnmaster(t *testing.T) {
	stored := models.VocabularyEntry{
		ID: "e1", UserLogin: "u1", SRSLevel: 5, IsMastered: true,
		ReviewCount: 12, LastReviewedAt: ms(now.Add(-48 * time.Hour)),
		NextReviewAt: ms(now.Add(30 * 24 * time.Hour)),
	}
	repo := &mockVocabRepo{
		GetByIDFunc: func(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
			entry := stored
			return &entry, nil
		},
		UpdateScheduleFunc: func(ctx context.Context, entry models.VocabularyEntry) error {
			stored = entry
			return nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	entry, err := svc.Unmaster(context.Background(), "u1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.SRSLevel != 0 || entry.IsMastered {
		t.Errorf("got level %d mastered %v; want level 0 unmastered", entry.SRSLevel, entry.IsMastered)
	}
	// Un-mastering makes the word due today, unlike the forgot
	// transition which defers to a later day.
	if entry.NextReviewAt == nil || *entry.NextReviewAt != startOfToday {
		t.Errorf("NextReviewAt = %v; want %d (start of today)", entry.NextReviewAt, startOfToday)
	}
	if entry.ReviewCount != 12 {
		t.Errorf("ReviewCount = %d; un-mastering must not count as a review", entry.ReviewCount)
	}

	// Idempotent: a second call yields the same state.
	again, err := svc.Unmaster(context.Background(), "u1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.SRSLevel != entry.SRSLevel || *again.NextReviewAt != *entry.NextReviewAt || again.IsMastered != entry.IsMastered {
		t.Errorf("second unmaster = %+v; want same state as first", again)
	}
}

func dueFixture() []models.VocabularyEntry {
	return []models.VocabularyEntry{
		{ID: "future", UserLogin: "u1", NextReviewAt: ms(now.Add(24 * time.Hour))},
		{ID: "never-reviewed", UserLogin: "u1"},
		{ID: "mastered", UserLogin: "u1", IsMastered: true, NextReviewAt: ms(now.Add(-24 * time.Hour))},
		{ID: "overdue", UserLogin: "u1", NextReviewAt: ms(now.Add(-48 * time.Hour))},
		{ID: "due-today", UserLogin: "u1", NextReviewAt: &startOfToday},
	}
}

func TestDueEntries(t *testing.T) {
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return dueFixture(), nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	due, err := svc.DueEntries(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"never-reviewed", "overdue", "due-today"}
	if len(due) != len(wantOrder) {
		t.Fatalf("len(due) = %d; want %d", len(due), len(wantOrder))
	}
	for i, want := range wantOrder {
		if due[i].ID != want {
			t.Errorf("due[%d] = %q; want %q", i, due[i].ID, want)
		}
	}
}

func TestDueCount_AgreesWithDueEntries(t *testing.T) {
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return dueFixture(), nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	due, err := svc.DueEntries(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err := svc.DueCount(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != len(due) {
		t.Errorf("DueCount = %d; DueEntries length = %d", count, len(due))
	}
}

func TestDueEntries_EmptySet(t *testing.T) {
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return nil, nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	due, err := svc.DueEntries(context.Background(), "u1")
	if err != nil {
		t.Fatalf("empty set must not be an error: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("len(due) = %d; want 0", len(due))
	}
}

func TestStats(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	entries := []models.VocabularyEntry{
		{ID: "a", IsMastered: true, ReviewCount: 10, LastReviewedAt: ms(now.Add(-time.Hour))},
		{ID: "b", ReviewCount: 4, LastReviewedAt: ms(yesterday)},
		{ID: "c", ReviewCount: 1, LastReviewedAt: ms(now.Add(-2 * time.Hour))},
	}
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return entries, nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	stats, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalWords != 3 || stats.MasteredWords != 1 || stats.LearningWords != 2 {
		t.Errorf("word counts = %+v; want 3/1/2", stats)
	}
	if stats.MasteryRate != 33 {
		t.Errorf("MasteryRate = %d; want 33", stats.MasteryRate)
	}
	if stats.TotalReviews != 15 {
		t.Errorf("TotalReviews = %d; want 15", stats.TotalReviews)
	}
	if stats.TodayReviews != 2 {
		t.Errorf("TodayReviews = %d; want 2", stats.TodayReviews)
	}
	// Reviews today and yesterday give a two-day streak.
	if stats.StreakDays != 2 {
		t.Errorf("StreakDays = %d; want 2", stats.StreakDays)
	}
}

func TestStats_StreakAllowsIncompleteToday(t *testing.T) {
	// No review yet today, but reviews yesterday and the day before:
	// the streak holds at 2.
	entries := []models.VocabularyEntry{
		{ID: "a", ReviewCount: 2, LastReviewedAt: ms(now.Add(-24 * time.Hour))},
		{ID: "b", ReviewCount: 2, LastReviewedAt: ms(now.Add(-48 * time.Hour))},
	}
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return entries, nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	stats, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.StreakDays != 2 {
		t.Errorf("StreakDays = %d; want 2", stats.StreakDays)
	}
	if stats.TodayReviews != 0 {
		t.Errorf("TodayReviews = %d; want 0", stats.TodayReviews)
	}
}

func TestStats_Empty(t *testing.T) {
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return nil, nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	stats, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalWords != 0 || stats.MasteryRate != 0 || stats.StreakDays != 0 {
		t.Errorf("empty stats = %+v; want zeros", stats)
	}
}

func TestReviewHistory(t *testing.T) {
	entries := []models.VocabularyEntry{
		{ID: "a", LastReviewedAt: ms(now.Add(-time.Hour))},
		{ID: "b", LastReviewedAt: ms(now.Add(-2 * time.Hour))},
		{ID: "c", LastReviewedAt: ms(now.Add(-24 * time.Hour))},
	}
	repo := &mockVocabRepo{
		ListByUserFunc: func(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
			return entries, nil
		},
	}
	svc := service.NewVocabularyService(repo, clock)

	history, err := svc.ReviewHistory(context.Background(), "u1", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 7 {
		t.Fatalf("len(history) = %d; want 7", len(history))
	}
	if history[6].Date != srs.DateKey(now.UnixMilli()) || history[6].Count != 2 {
		t.Errorf("today = %+v; want date %s count 2", history[6], srs.DateKey(now.UnixMilli()))
	}
	if history[5].Count != 1 {
		t.Errorf("yesterday count = %d; want 1", history[5].Count)
	}
	if history[0].Count != 0 {
		t.Errorf("oldest day count = %d; want 0", history[0].Count)
	}
}
