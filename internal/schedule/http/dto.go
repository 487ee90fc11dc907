package http

import (
	"time"

	"github.com/campuskit/facility-booking-backend/internal/schedule"
)

type BookClassBody struct {
	PeriodID   string `json:"period_id" binding:"required"`
	Facility   string `json:"facility" binding:"required"`
	CourseCode string `json:"course_code"`
	StaffName  string `json:"staff_name"`
}

type BookProjectorBody struct {
	PeriodID string `json:"period_id" binding:"required"`
	Facility string `json:"facility" binding:"required"`
}

type FreeBody struct {
	PeriodID string `json:"period_id" binding:"required"`
}

type ResyncBody struct {
	PeriodID string `json:"period_id" binding:"required"`
}

type SlotResponse struct {
	PeriodNo   int    `json:"period_no"`
	Day        int    `json:"day"`
	PeriodID   string `json:"period_id"`
	Free       bool   `json:"free"`
	RoomNo     string `json:"room_no"`
	Lab        string `json:"lab"`
	Projector  string `json:"projector"`
	CourseCode string `json:"course_code"`
	StaffName  string `json:"staff_name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func NewSlotResponse(s *schedule.PeriodSlot) SlotResponse {
	return SlotResponse{
		PeriodNo:   s.PeriodNo,
		Day:        s.Day,
		PeriodID:   s.PeriodID,
		Free:       s.Free,
		RoomNo:     s.RoomNo,
		Lab:        s.Lab,
		Projector:  s.Projector,
		CourseCode: s.CourseCode,
		StaffName:  s.StaffName,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
	}
}

type WeekResponse struct {
	UserID    string         `json:"user_id"`
	WeekStart string         `json:"week_start"`
	Periods   []SlotResponse `json:"periods"`
}

func NewWeekResponse(ws *schedule.WeekSchedule) WeekResponse {
	out := WeekResponse{
		UserID:    ws.UserID,
		WeekStart: ws.WeekStart.Format(time.DateOnly),
		Periods:   make([]SlotResponse, len(ws.Periods)),
	}
	for i := range ws.Periods {
		out.Periods[i] = NewSlotResponse(&ws.Periods[i])
	}
	return out
}

type AvailabilityResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Free bool   `json:"free"`
}

type EnsureResponse struct {
	WeeksCreated int `json:"weeks_created"`
	UsersFailed  int `json:"users_failed"`
}
