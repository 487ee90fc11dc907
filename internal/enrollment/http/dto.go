package http

import (
	"github.com/campuskit/facility-booking-backend/internal/enrollment"
)

type CourseBody struct {
	CourseCode string `json:"course_code" binding:"required"`
	CourseName string `json:"course_name" binding:"required"`
	StaffName  string `json:"staff_name" binding:"required"`
	Lab        bool   `json:"lab"`
}

// ReplaceBody sets a user's whole enrolled-course list at once.
type ReplaceBody struct {
	UserID  string       `json:"user_id" binding:"required"`
	Courses []CourseBody `json:"courses" binding:"required,min=1,dive"`
}

type CourseResponse struct {
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	StaffName  string `json:"staff_name"`
	Lab        bool   `json:"lab"`
}

func NewCourseResponses(courses []enrollment.Course) []CourseResponse {
	out := make([]CourseResponse, len(courses))
	for i, c := range courses {
		out[i] = CourseResponse{
			CourseCode: c.CourseCode,
			CourseName: c.CourseName,
			StaffName:  c.StaffName,
			Lab:        c.Lab,
		}
	}
	return out
}
