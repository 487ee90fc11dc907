package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/facility-booking-backend/internal/timetable"
)

func TestWeekStart(t *testing.T) {
	loc := time.UTC
	// 2026-08-31 is a Monday.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday midnight maps to itself", monday, monday},
		{"midweek", time.Date(2026, 9, 2, 15, 30, 0, 0, loc), monday},
		{"saturday", time.Date(2026, 9, 5, 23, 59, 0, 0, loc), monday},
		{"sunday belongs to the preceding monday", time.Date(2026, 9, 6, 10, 0, 0, 0, loc), monday},
		{"next monday starts a new week", time.Date(2026, 9, 7, 0, 0, 0, 0, loc), monday.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, WeekStart(tt.in, loc).Equal(tt.want))
		})
	}
}

func TestWeekStartUsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// Sunday 20:00 UTC is already Monday 01:30 in Kolkata.
	instant := time.Date(2026, 9, 6, 20, 0, 0, 0, time.UTC)

	utcWeek := WeekStart(instant, time.UTC)
	kolkataWeek := WeekStart(instant, kolkata)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), utcWeek)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, kolkata), kolkataWeek)
}

func TestWeekStartWithOffset(t *testing.T) {
	loc := time.UTC
	wed := time.Date(2026, 9, 2, 12, 0, 0, 0, loc)

	assert.True(t, WeekStartWithOffset(wed, loc, 0).Equal(WeekStart(wed, loc)))
	assert.True(t, WeekStartWithOffset(wed, loc, 2).Equal(time.Date(2026, 9, 14, 0, 0, 0, 0, loc)))
}

func TestSlotDate(t *testing.T) {
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, SlotDate(monday, 1))
	assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), SlotDate(monday, 5))
}

func TestNewWeekFromTemplate(t *testing.T) {
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	slots := timetable.DefaultGrid()
	slots[0].Free = false
	slots[0].RoomNo = "KP-107"
	slots[0].CourseCode = "CS201"

	ws := newWeekFromTemplate("2021cs001", monday, slots)

	require.Len(t, ws.Periods, timetable.SlotCount)
	assert.Equal(t, "2021cs001", ws.UserID)
	assert.True(t, ws.WeekStart.Equal(monday))

	first := ws.Periods[0]
	assert.False(t, first.Free)
	assert.Equal(t, "KP-107", first.RoomNo)
	assert.Equal(t, "CS201", first.CourseCode)
	// Projector state never comes from a template.
	assert.Empty(t, first.Projector)
}
