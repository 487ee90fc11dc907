package timetable

import (
	"regexp"
	"strings"
)

// labNames maps the short lab codes used in timetable cells to the facility
// names they are registered under.
var labNames = map[string]string{
	"GFL": "Ground Floor Lab",
	"FFL": "First Floor Lab",
	"SFL": "Second Floor Lab",
	"TFL": "Third Floor Lab",
}

// cellPattern matches "COURSECODE (ROOM_OR_LABCODE)", e.g. "CS201 (KP-107)".
var cellPattern = regexp.MustCompile(`([A-Z]+\d+)\s*\((.*?)\)`)

// Course is one entry of the staff listing that accompanies a grid.
type Course struct {
	Code  string
	Name  string
	Staff string
}

// ParseGrid converts the tabular timetable form into 40 template slots.
// rows holds 5 day rows of 8 cells each (empty cell = free period); courses
// supplies staff names by course code. Lab-code tokens resolve to full lab
// names; any other token is taken as a room number.
func ParseGrid(rows [][]string, courses []Course) ([]Slot, error) {
	if len(rows) != DaysPerWeek {
		return nil, ErrBadGrid
	}

	staffByCourse := make(map[string]string, len(courses))
	for _, c := range courses {
		if c.Code != "" {
			staffByCourse[c.Code] = c.Staff
		}
	}

	slots := make([]Slot, 0, SlotCount)
	for dayIdx, row := range rows {
		if len(row) != PeriodsPerDay {
			return nil, ErrBadGrid
		}
		day := dayIdx + 1

		for periodIdx, cell := range row {
			periodNo := periodIdx + 1
			slot := Slot{
				PeriodNo:  periodNo,
				Day:       day,
				PeriodID:  PeriodID(periodNo, day),
				Free:      true,
				StartTime: DefaultStartTimes[periodIdx],
				EndTime:   DefaultEndTimes[periodIdx],
			}

			if m := cellPattern.FindStringSubmatch(strings.TrimSpace(cell)); m != nil {
				courseCode, venue := m[1], strings.TrimSpace(m[2])
				slot.Free = false
				slot.CourseCode = courseCode
				slot.StaffName = staffByCourse[courseCode]
				if labName, ok := labNames[venue]; ok {
					slot.Lab = labName
				} else {
					slot.RoomNo = venue
				}
			}

			slots = append(slots, slot)
		}
	}
	return slots, nil
}
