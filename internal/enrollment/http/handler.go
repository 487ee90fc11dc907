package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/enrollment"
	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
)

type Handler struct {
	service enrollment.Service
}

func NewHandler(service enrollment.Service) *Handler {
	return &Handler{service: service}
}

// Courses returns the caller's enrolled courses, feeding the booking form's
// course selection. Administrators may read any user's list via ?user_id.
func (h *Handler) Courses(c *gin.Context) {
	userID := auth.GetUserID(c)
	if v := c.Query("user_id"); v != "" && auth.IsAdmin(c) {
		userID = v
	}

	courses, err := h.service.Courses(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCourseResponses(courses))
}

func (h *Handler) Replace(c *gin.Context) {
	var body ReplaceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	courses := make([]enrollment.Course, len(body.Courses))
	for i, cb := range body.Courses {
		courses[i] = enrollment.Course{
			CourseCode: cb.CourseCode,
			CourseName: cb.CourseName,
			StaffName:  cb.StaffName,
			Lab:        cb.Lab,
		}
	}

	saved, err := h.service.Replace(c.Request.Context(), body.UserID, courses)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCourseResponses(saved))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("userID")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "enrollment deleted"})
}
