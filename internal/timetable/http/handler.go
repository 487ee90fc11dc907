package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
)

type Handler struct {
	service timetable.Service
}

func NewHandler(service timetable.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.GetByUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTemplateResponse(t))
}

func (h *Handler) GetUser(c *gin.Context) {
	t, err := h.service.GetByUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTemplateResponse(t))
}

func (h *Handler) Rebuild(c *gin.Context) {
	var body RebuildBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.Rebuild(c.Request.Context(), auth.GetUserID(c), toSlots(body.Periods))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTemplateResponse(t))
}

func (h *Handler) Import(c *gin.Context) {
	var body ImportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.RebuildFromGrid(c.Request.Context(), auth.GetUserID(c), body.Rows, toCourses(body.Courses))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTemplateResponse(t))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("userID")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
