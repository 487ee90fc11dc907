package schedule

import (
	"net/http"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrWeekNotFound     = apperror.New(http.StatusNotFound, "week schedule not found")
	ErrSlotNotFound     = apperror.New(http.StatusNotFound, "period not found in week schedule")
	ErrSlotOccupied     = apperror.New(http.StatusConflict, "period already occupied")
	ErrProjectorBooked  = apperror.New(http.StatusConflict, "projector already booked for this period")
	ErrFacilityConflict = apperror.New(http.StatusConflict, "facility already in use for this period")
	ErrSlotNotFree      = apperror.New(http.StatusConflict, "period holds a live booking")
	ErrNothingToFree    = apperror.New(http.StatusBadRequest, "period has no booking to free")
	ErrNotBookable      = apperror.New(http.StatusBadRequest, "facility is not bookable")
	ErrWrongType        = apperror.New(http.StatusBadRequest, "facility has the wrong type for this operation")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "facility name is required")
	ErrConcurrentChange = apperror.New(http.StatusConflict, "period changed concurrently, retry")
)

// PeriodSlot is one live, bookable period in a user's week.
//
// Invariants: Free is false exactly when RoomNo or Lab is set (never both);
// Projector is an independent sub-resource and does not affect Free.
type PeriodSlot struct {
	PeriodNo   int
	Day        int
	PeriodID   string
	Free       bool
	RoomNo     string
	Lab        string
	Projector  string
	CourseCode string
	StaffName  string
	StartTime  string
	EndTime    string
}

// Occupied reports whether a class occupies the slot.
func (s *PeriodSlot) Occupied() bool {
	return s.RoomNo != "" || s.Lab != ""
}

// WeekSchedule is one user's mutable 40-slot schedule for a concrete week.
type WeekSchedule struct {
	UserID    string
	WeekStart time.Time
	Periods   []PeriodSlot // ordered by slot index
}

// Availability is one facility's computed state for a (week, period).
type Availability struct {
	Name string
	Type string
	Free bool
}

// Occupancy is one occupied facility reference found in a week slot, used by
// the availability resolver and the registry rebuild.
type Occupancy struct {
	UserID    string
	PeriodID  string
	RoomNo    string
	Lab       string
	Projector string
}
