package schedule

import (
	"time"

	"github.com/campuskit/facility-booking-backend/internal/timetable"
)

// WeekStart returns Monday 00:00 of the week containing t, in the given
// location. Weeks run Monday through Sunday, so Sunday maps to the Monday
// six days earlier. All WeekSchedule lookups are exact matches on this value.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
}

// WeekStartWithOffset returns the week start offset whole weeks from the week
// containing t.
func WeekStartWithOffset(t time.Time, loc *time.Location, offset int) time.Time {
	return WeekStart(t, loc).AddDate(0, 0, offset*7)
}

// SlotDate returns the calendar date a slot falls on within a week.
func SlotDate(weekStart time.Time, day int) time.Time {
	return weekStart.AddDate(0, 0, day-1)
}

// newWeekFromTemplate projects template slots into a fresh week instance.
// Projector state never comes from a template.
func newWeekFromTemplate(userID string, weekStart time.Time, slots []timetable.Slot) *WeekSchedule {
	ws := &WeekSchedule{
		UserID:    userID,
		WeekStart: weekStart,
		Periods:   make([]PeriodSlot, 0, len(slots)),
	}
	for _, s := range slots {
		ws.Periods = append(ws.Periods, PeriodSlot{
			PeriodNo:   s.PeriodNo,
			Day:        s.Day,
			PeriodID:   s.PeriodID,
			Free:       s.Free,
			RoomNo:     s.RoomNo,
			Lab:        s.Lab,
			CourseCode: s.CourseCode,
			StaffName:  s.StaffName,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
		})
	}
	return ws
}
