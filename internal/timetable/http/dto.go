package http

import (
	"github.com/campuskit/facility-booking-backend/internal/timetable"
)

type SlotBody struct {
	PeriodNo   int    `json:"period_no" binding:"required,min=1,max=8"`
	Day        int    `json:"day" binding:"required,min=1,max=5"`
	Free       bool   `json:"free"`
	RoomNo     string `json:"room_no"`
	Lab        string `json:"lab"`
	CourseCode string `json:"course_code"`
	StaffName  string `json:"staff_name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type RebuildBody struct {
	Periods []SlotBody `json:"periods" binding:"required"`
}

type CourseBody struct {
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name"`
	Staff string `json:"staff"`
}

// ImportBody carries the tabular form: 5 day rows of 8 cells, each cell either
// empty or "COURSECODE (VENUE)".
type ImportBody struct {
	Rows    [][]string   `json:"rows" binding:"required"`
	Courses []CourseBody `json:"courses"`
}

type SlotResponse struct {
	PeriodNo   int    `json:"period_no"`
	Day        int    `json:"day"`
	PeriodID   string `json:"period_id"`
	Free       bool   `json:"free"`
	RoomNo     string `json:"room_no"`
	Lab        string `json:"lab"`
	CourseCode string `json:"course_code"`
	StaffName  string `json:"staff_name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type TemplateResponse struct {
	UserID  string         `json:"user_id"`
	Periods []SlotResponse `json:"periods"`
}

func NewTemplateResponse(t *timetable.Template) TemplateResponse {
	out := TemplateResponse{
		UserID:  t.UserID,
		Periods: make([]SlotResponse, len(t.Periods)),
	}
	for i, s := range t.Periods {
		out.Periods[i] = SlotResponse{
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
		}
	}
	return out
}

func toSlots(bodies []SlotBody) []timetable.Slot {
	slots := make([]timetable.Slot, len(bodies))
	for i, b := range bodies {
		start, end := b.StartTime, b.EndTime
		if start == "" && b.PeriodNo >= 1 && b.PeriodNo <= timetable.PeriodsPerDay {
			start = timetable.DefaultStartTimes[b.PeriodNo-1]
		}
		if end == "" && b.PeriodNo >= 1 && b.PeriodNo <= timetable.PeriodsPerDay {
			end = timetable.DefaultEndTimes[b.PeriodNo-1]
		}
		slots[i] = timetable.Slot{
			PeriodNo:   b.PeriodNo,
			Day:        b.Day,
			PeriodID:   timetable.PeriodID(b.PeriodNo, b.Day),
			Free:       b.Free,
			RoomNo:     b.RoomNo,
			Lab:        b.Lab,
			CourseCode: b.CourseCode,
			StaffName:  b.StaffName,
			StartTime:  start,
			EndTime:    end,
		}
	}
	return slots
}

func toCourses(bodies []CourseBody) []timetable.Course {
	courses := make([]timetable.Course, len(bodies))
	for i, b := range bodies {
		courses[i] = timetable.Course{Code: b.Code, Name: b.Name, Staff: b.Staff}
	}
	return courses
}
