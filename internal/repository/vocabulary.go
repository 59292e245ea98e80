package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mshiraki/tangocho/internal/models"
)

// entryColumns is the column list shared by all vocabulary_entries selects.
const entryColumns = `id, user_login, word, phonetic, meaning, example, example_jp,
		created_at, srs_level, next_review_at, last_reviewed_at, review_count, is_mastered`

// PostgresVocabularyRepository implements vocabulary-entry persistence against
// a PostgreSQL database.
type PostgresVocabularyRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresVocabularyRepository creates a new PostgresVocabularyRepository
// using the provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresVocabularyRepository(db *sql.DB) *PostgresVocabularyRepository {
	return &PostgresVocabularyRepository{DB: db}
}

// Create inserts a new vocabulary entry.
func (r *PostgresVocabularyRepository) Create(ctx context.Context, entry models.VocabularyEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO vocabulary_entries
			(id, user_login, word, phonetic, meaning, example, example_jp,
			 created_at, srs_level, next_review_at, last_reviewed_at, review_count, is_mastered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, entry.ID, entry.UserLogin, entry.Word, entry.Phonetic, entry.Meaning,
		entry.Example, entry.ExampleJP, entry.CreatedAt, entry.SRSLevel,
		nullableMS(entry.NextReviewAt), nullableMS(entry.LastReviewedAt),
		entry.ReviewCount, entry.IsMastered)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry by ID for the given user.
// Returns models.ErrNotFound if the entry does not exist or belongs to
// another user.
//
//	ctx:       context for cancellation and deadlines
//	userLogin: identifier of the user
//	id:        ID of the entry to fetch
func (r *PostgresVocabularyRepository) GetByID(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM vocabulary_entries
		WHERE user_login = $1 AND id = $2
	`, userLogin, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// ListByUser fetches all vocabulary entries for the specified user,
// newest first.
//
//	ctx:       context for cancellation and deadlines
//	userLogin: identifier of the user
//
// Returns a slice of models.VocabularyEntry or an error if the query or
// scanning fails.
func (r *PostgresVocabularyRepository) ListByUser(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM vocabulary_entries
		WHERE user_login = $1 ORDER BY created_at DESC
	`, userLogin)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var entries []models.VocabularyEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// UpdateSchedule writes back the scheduling state of a reviewed entry:
// level, next review, last review, review count, and mastered flag.
// Returns models.ErrNotFound if the entry does not exist for the user.
func (r *PostgresVocabularyRepository) UpdateSchedule(ctx context.Context, entry models.VocabularyEntry) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vocabulary_entries
		   SET srs_level = $3, next_review_at = $4, last_reviewed_at = $5,
		       review_count = $6, is_mastered = $7
		 WHERE user_login = $1 AND id = $2
	`, entry.UserLogin, entry.ID, entry.SRSLevel,
		nullableMS(entry.NextReviewAt), nullableMS(entry.LastReviewedAt),
		entry.ReviewCount, entry.IsMastered)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the entry with the given ID for the specified user.
// Returns models.ErrNotFound if nothing was deleted.
func (r *PostgresVocabularyRepository) Delete(ctx context.Context, userLogin, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM vocabulary_entries WHERE user_login = $1 AND id = $2
	`, userLogin, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one vocabulary_entries row, converting nullable
// millisecond columns to pointers.
func scanEntry(s scanner) (*models.VocabularyEntry, error) {
	var (
		entry        models.VocabularyEntry
		nextReview   sql.NullInt64
		lastReviewed sql.NullInt64
	)
	err := s.Scan(&entry.ID, &entry.UserLogin, &entry.Word, &entry.Phonetic,
		&entry.Meaning, &entry.Example, &entry.ExampleJP, &entry.CreatedAt,
		&entry.SRSLevel, &nextReview, &lastReviewed, &entry.ReviewCount,
		&entry.IsMastered)
	if err != nil {
		return nil, err
	}
	if nextReview.Valid {
		entry.NextReviewAt = &nextReview.Int64
	}
	if lastReviewed.Valid {
		entry.LastReviewedAt = &lastReviewed.Int64
	}
	return &entry, nil
}

// nullableMS converts an optional millisecond timestamp to its SQL form.
func nullableMS(ms *int64) sql.NullInt64 {
	if ms == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *ms, Valid: true}
}
