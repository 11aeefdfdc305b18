package entity

import "time"

// ExtractionRun mirrors the `extraction_runs` PostgreSQL table schema.
type ExtractionRun struct {
	ID             int64
	OrgID          string
	Source         DocumentKind
	Strategy       string
	ItemCount      int
	OK             bool
	ErrorMessage   string
	HTTPStatusCode int
	DurationMS     int
	RunTimestamp   time.Time
}
