package reservation

import (
	"net/http"
	"regexp"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "reservation request not found")
	ErrOverlap         = apperror.New(http.StatusConflict, "venue already reserved for an overlapping interval")
	ErrBadTransition   = apperror.New(http.StatusConflict, "reservation status does not allow this transition")
	ErrNotOwner        = apperror.New(http.StatusForbidden, "reservation belongs to another user")
	ErrBadTime         = apperror.New(http.StatusBadRequest, "times must be HH:MM with start before end")
	ErrSlotsNotChained = apperror.New(http.StatusBadRequest, "requested slots must be contiguous")
	ErrInvalidStatus   = apperror.New(http.StatusBadRequest, "invalid reservation status")
	ErrNotInterval     = apperror.New(http.StatusBadRequest, "venue is not reservable by interval")
	ErrNotBookable     = apperror.New(http.StatusBadRequest, "venue is not bookable")
	ErrNoSlots         = apperror.New(http.StatusBadRequest, "at least one time slot is required")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// timePattern enforces the zero-padded 24h clock form. Keeping times as
// strings makes interval comparison a plain lexical <.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func ValidTime(t string) bool {
	return timePattern.MatchString(t)
}

// Request is one interval reservation of a hall or auditorium. Only accepted
// requests hold the venue; pending ones may overlap each other freely.
type Request struct {
	ID             string
	UserID         string
	VenueName      string
	VenueType      string
	Date           time.Time
	StartTime      string // "HH:MM", inclusive
	EndTime        string // "HH:MM", exclusive
	EventName      string
	AdditionalInfo string
	DocumentName   string
	Status         Status
	RequestedAt    time.Time
	UpdatedAt      time.Time
}

// Filter narrows reservation listings.
type Filter struct {
	UserID    string
	VenueName string // substring match
	Status    Status
	Date      *time.Time
	Limit     int
	Offset    int
}

// Overlaps reports whether two half-open intervals on the same date collide.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
