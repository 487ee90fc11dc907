package timetable

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "timetable not found")
	ErrBadGrid       = apperror.New(http.StatusBadRequest, "timetable must cover all 40 period slots exactly once")
	ErrInvalidPeriod = apperror.New(http.StatusBadRequest, "period must be 1..8 and day 1..5")
)

// The teaching week is a fixed grid: 8 periods a day, Monday through Friday.
const (
	PeriodsPerDay = 8
	DaysPerWeek   = 5
	SlotCount     = PeriodsPerDay * DaysPerWeek
)

// Default period boundaries, used when a user has no template.
var (
	DefaultStartTimes = [PeriodsPerDay]string{"08:30", "09:25", "10:30", "11:25", "13:10", "14:05", "15:00", "15:55"}
	DefaultEndTimes   = [PeriodsPerDay]string{"09:20", "10:15", "11:20", "12:15", "14:00", "14:55", "15:50", "16:45"}
)

// PeriodID builds the "{periodNo}-{day}" key shared by every user's schedule
// for the same grid position.
func PeriodID(periodNo, day int) string {
	return fmt.Sprintf("%d-%d", periodNo, day)
}

// ParsePeriodID splits a "{periodNo}-{day}" key and validates the ranges.
// The whole string must be consumed: trailing characters are rejected.
func ParsePeriodID(periodID string) (periodNo, day int, err error) {
	p, d, ok := strings.Cut(periodID, "-")
	if !ok {
		return 0, 0, ErrInvalidPeriod
	}
	periodNo, err = strconv.Atoi(p)
	if err != nil {
		return 0, 0, ErrInvalidPeriod
	}
	day, err = strconv.Atoi(d)
	if err != nil {
		return 0, 0, ErrInvalidPeriod
	}
	if periodNo < 1 || periodNo > PeriodsPerDay || day < 1 || day > DaysPerWeek {
		return 0, 0, ErrInvalidPeriod
	}
	return periodNo, day, nil
}

// SlotIndex maps a grid position to its fixed array index 0..39.
func SlotIndex(periodNo, day int) int {
	return (day-1)*PeriodsPerDay + (periodNo - 1)
}

// Slot is one template period. Templates carry no projector state: projectors
// are booked against live weeks only.
type Slot struct {
	PeriodNo   int
	Day        int
	PeriodID   string
	Free       bool
	RoomNo     string
	Lab        string
	CourseCode string
	StaffName  string
	StartTime  string
	EndTime    string
}

// Template is a user's canonical weekly schedule, the seed for new week
// instances. It is mutated only by explicit rebuilds, never by bookings.
type Template struct {
	UserID  string
	Periods []Slot // exactly SlotCount entries, ordered by slot index
}

// DefaultGrid returns a fully free 40-slot week with the default period times.
func DefaultGrid() []Slot {
	slots := make([]Slot, 0, SlotCount)
	for day := 1; day <= DaysPerWeek; day++ {
		for periodNo := 1; periodNo <= PeriodsPerDay; periodNo++ {
			slots = append(slots, Slot{
				PeriodNo:  periodNo,
				Day:       day,
				PeriodID:  PeriodID(periodNo, day),
				Free:      true,
				StartTime: DefaultStartTimes[periodNo-1],
				EndTime:   DefaultEndTimes[periodNo-1],
			})
		}
	}
	return slots
}

// ValidateGrid checks that slots cover every (day, period) position exactly
// once and that occupancy is coherent: an occupied slot names a room or a lab
// but not both, a free slot names neither.
func ValidateGrid(slots []Slot) error {
	if len(slots) != SlotCount {
		return ErrBadGrid
	}
	seen := make(map[int]bool, SlotCount)
	for _, s := range slots {
		if s.PeriodNo < 1 || s.PeriodNo > PeriodsPerDay || s.Day < 1 || s.Day > DaysPerWeek {
			return ErrInvalidPeriod
		}
		idx := SlotIndex(s.PeriodNo, s.Day)
		if seen[idx] {
			return ErrBadGrid
		}
		seen[idx] = true

		occupied := s.RoomNo != "" || s.Lab != ""
		if s.RoomNo != "" && s.Lab != "" {
			return ErrBadGrid
		}
		if s.Free == occupied {
			return ErrBadGrid
		}
	}
	return nil
}
