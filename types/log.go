package types

import "time"

// LogEntry represents an API access log entry to be stored in the database
type LogEntry struct {
	ID         uint
	Method     string
	Path       string
	CallerID   *uint
	CallerRole string
	StatusCode int
	LatencyMs  int64
	CreatedAt  time.Time
}
