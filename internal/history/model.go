package history

import "time"

// Entry is one append-only record of a facility state transition. Entries are
// never updated or deleted.
type Entry struct {
	ID           string
	UserID       string
	PeriodID     string
	FacilityName string
	FacilityType string
	// Free is the state the facility transitioned INTO: false for a booking,
	// true for a freeing.
	Free       bool
	UsageDate  time.Time
	RecordedAt time.Time
}

// Filter narrows a history query. Zero values mean "no restriction".
type Filter struct {
	FacilityName string // case-insensitive substring match
	UsageDate    *time.Time
	UserID       string
	Page         int
	PageSize     int
}
