package enrollment

import (
	"net/http"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, "enrollment not found")
	ErrNoCourses = apperror.New(http.StatusBadRequest, "at least one course is required")
	ErrBadCourse = apperror.New(http.StatusBadRequest, "each course needs a code, a name and a staff name")
)

// Course is one entry of a user's enrolled-course list. The booking form
// offers these as the course choices for a slot; Lab marks courses taught in
// a lab rather than a room.
type Course struct {
	CourseCode string
	CourseName string
	StaffName  string
	Lab        bool
}
