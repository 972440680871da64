// Package db provides SQLite-backed storage for bloom's JSON records.
package db

import "time"

// Record keys used across the app. Each key holds one JSON document.
const (
	KeyHabits               = "habits"
	KeyLastRolloverDate     = "lastRolloverDate"
	KeyTodaySteps           = "todaySteps"
	KeyUserProfile          = "userProfile"
	KeyJournalEntries       = "journalEntries"
	KeyCreativeDrawings     = "creativeDrawings"
	KeyCollectedButterflies = "collectedButterflies"
	KeyFavoriteButterflies  = "favoriteButterflies"
	KeyActivitySessions     = "activitySessions"
	KeyBackgroundTracking   = "backgroundTracking"
)

// Record is a single stored key/value pair.
type Record struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
