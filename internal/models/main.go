// Package models defines the core data structures for users, sessions,
// and vocabulary entries.
package models

// User represents an application user.
type User struct {
	// Login is the unique login name of the user.
	Login string `json:"login"`
}

// Session represents an issued login session.
type Session struct {
	// Token is the opaque bearer token presented by the client.
	Token string `json:"token"`
	// UserLogin is the login of the user the session belongs to.
	UserLogin string `json:"-"`
	// ExpiresAt is the expiry instant in Unix milliseconds.
	ExpiresAt int64 `json:"expiresAt"`
}

// SearchResult is one analyzed word produced by the LLM search.
// Saving a result creates a VocabularyEntry with the same content fields.
type SearchResult struct {
	// Word is the English word or phrase.
	Word string `json:"word"`
	// Phonetic is the IPA pronunciation.
	Phonetic string `json:"phonetic"`
	// Meaning is the Japanese definition.
	Meaning string `json:"meaning"`
	// Example is an English example sentence.
	Example string `json:"example"`
	// ExampleJP is the Japanese translation of the example.
	ExampleJP string `json:"exampleJp"`
}

// VocabularyEntry is a saved word together with its review-scheduling state.
// All timestamps are Unix milliseconds; NextReviewAt and LastReviewedAt are
// nil until the entry has been scheduled or reviewed.
type VocabularyEntry struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`
	// UserLogin is the owner of the entry.
	UserLogin string `json:"-"`
	// Word is the English word or phrase.
	Word string `json:"word"`
	// Phonetic is the IPA pronunciation.
	Phonetic string `json:"phonetic"`
	// Meaning is the Japanese definition.
	Meaning string `json:"meaning"`
	// Example is an English example sentence.
	Example string `json:"example"`
	// ExampleJP is the Japanese translation of the example.
	ExampleJP string `json:"exampleJp"`
	// CreatedAt is the save instant in Unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
	// SRSLevel is the current position on the review interval ladder.
	// Mutated only by the scheduling engine.
	SRSLevel int `json:"srsLevel"`
	// NextReviewAt is the next scheduled review instant, always a JST
	// day boundary. Nil means the entry has never been reviewed and is
	// due immediately.
	NextReviewAt *int64 `json:"nextReviewAt"`
	// LastReviewedAt records the most recent review instant. Informational
	// only; scheduling never reads it.
	LastReviewedAt *int64 `json:"lastReviewedAt"`
	// ReviewCount is the total number of reviews performed on the entry.
	ReviewCount int `json:"reviewCount"`
	// IsMastered is true once the entry has climbed past the top rung of
	// the ladder. Mastered entries are never due.
	IsMastered bool `json:"isMastered"`
}

// PushSubscription holds a Web-Push subscription registered by a user.
// A user has at most one subscription.
type PushSubscription struct {
	// ID is the unique identifier of the subscription.
	ID string `json:"id"`
	// UserLogin is the owner of the subscription.
	UserLogin string `json:"-"`
	// Endpoint is the push service delivery URL.
	Endpoint string `json:"endpoint"`
	// P256DH is the client public key for payload encryption.
	P256DH string `json:"p256dh"`
	// Auth is the client auth secret for payload encryption.
	Auth string `json:"auth"`
	// CreatedAt is the registration instant in Unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// StudyStats aggregates a user's learning progress.
type StudyStats struct {
	TotalWords    int `json:"totalWords"`
	MasteredWords int `json:"masteredWords"`
	LearningWords int `json:"learningWords"`
	// MasteryRate is the rounded percentage of mastered words.
	MasteryRate  int `json:"masteryRate"`
	TotalReviews int `json:"totalReviews"`
	// TodayReviews counts entries reviewed during the current JST day.
	TodayReviews int `json:"todayReviews"`
	// StreakDays is the number of consecutive JST days with at least one
	// review, counted backwards from today. An incomplete today does not
	// break the streak.
	StreakDays int `json:"streakDays"`
}

// DailyReviews is one day of review history.
type DailyReviews struct {
	// Date is the JST calendar date in YYYY-MM-DD form.
	Date string `json:"date"`
	// Count is the number of entries last reviewed on that date.
	Count int `json:"count"`
}
