package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyRows() [][]string {
	rows := make([][]string, DaysPerWeek)
	for i := range rows {
		rows[i] = make([]string, PeriodsPerDay)
	}
	return rows
}

func TestParseGridEmptyIsAllFree(t *testing.T) {
	slots, err := ParseGrid(emptyRows(), nil)
	require.NoError(t, err)
	require.Len(t, slots, SlotCount)
	require.NoError(t, ValidateGrid(slots))
	for _, s := range slots {
		assert.True(t, s.Free)
	}
}

func TestParseGridRoomCell(t *testing.T) {
	rows := emptyRows()
	rows[0][2] = "CS201 (KP-107)"

	slots, err := ParseGrid(rows, []Course{{Code: "CS201", Name: "Algorithms", Staff: "Dr. Rao"}})
	require.NoError(t, err)

	s := slots[SlotIndex(3, 1)]
	assert.False(t, s.Free)
	assert.Equal(t, "KP-107", s.RoomNo)
	assert.Empty(t, s.Lab)
	assert.Equal(t, "CS201", s.CourseCode)
	assert.Equal(t, "Dr. Rao", s.StaffName)
}

func TestParseGridLabCodeResolvesToLabName(t *testing.T) {
	rows := emptyRows()
	rows[1][0] = "CS305 (GFL)"
	rows[2][7] = "CS305 (TFL)"

	slots, err := ParseGrid(rows, []Course{{Code: "CS305", Staff: "Prof. Iyer"}})
	require.NoError(t, err)

	s := slots[SlotIndex(1, 2)]
	assert.Equal(t, "Ground Floor Lab", s.Lab)
	assert.Empty(t, s.RoomNo)
	assert.Equal(t, "Prof. Iyer", s.StaffName)

	s = slots[SlotIndex(8, 3)]
	assert.Equal(t, "Third Floor Lab", s.Lab)
}

func TestParseGridUnknownStaffLeftEmpty(t *testing.T) {
	rows := emptyRows()
	rows[0][0] = "MA101 (KP-201)"

	slots, err := ParseGrid(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, "MA101", slots[0].CourseCode)
	assert.Empty(t, slots[0].StaffName)
}

func TestParseGridUnmatchedCellStaysFree(t *testing.T) {
	rows := emptyRows()
	rows[0][0] = "lunch break"

	slots, err := ParseGrid(rows, nil)
	require.NoError(t, err)
	assert.True(t, slots[0].Free)
	assert.Empty(t, slots[0].CourseCode)
}

func TestParseGridBadShape(t *testing.T) {
	_, err := ParseGrid(emptyRows()[:4], nil)
	assert.ErrorIs(t, err, ErrBadGrid)

	rows := emptyRows()
	rows[2] = rows[2][:7]
	_, err = ParseGrid(rows, nil)
	assert.ErrorIs(t, err, ErrBadGrid)
}
