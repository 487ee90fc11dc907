package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
	"github.com/campuskit/facility-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
	horizon int
}

func NewHandler(service schedule.Service, horizonWeeks int) *Handler {
	return &Handler{service: service, horizon: horizonWeeks}
}

// parseWeekStart reads an optional ?week_start=YYYY-MM-DD query parameter.
// Zero time means "current week".
func parseWeekStart(c *gin.Context) (time.Time, bool) {
	raw := c.Query("week_start")
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start, want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) Week(c *gin.Context) {
	weekStart, ok := parseWeekStart(c)
	if !ok {
		return
	}

	ws, err := h.service.WeekView(c.Request.Context(), auth.GetUserID(c), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeekResponse(ws))
}

// UserWeek lets administrators inspect any user's week.
func (h *Handler) UserWeek(c *gin.Context) {
	weekStart, ok := parseWeekStart(c)
	if !ok {
		return
	}

	ws, err := h.service.WeekView(c.Request.Context(), c.Param("userID"), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeekResponse(ws))
}

func (h *Handler) Today(c *gin.Context) {
	slots, err := h.service.TodayPeriods(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i := range slots {
		items[i] = NewSlotResponse(&slots[i])
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ProjectorBookings(c *gin.Context) {
	slots, err := h.service.ProjectorBookings(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i := range slots {
		items[i] = NewSlotResponse(&slots[i])
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) bookClass(c *gin.Context, book func(c *gin.Context, req schedule.BookRequest) (*schedule.PeriodSlot, error)) {
	var body BookClassBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	slot, err := book(c, schedule.BookRequest{
		UserID:       auth.GetUserID(c),
		PeriodID:     body.PeriodID,
		FacilityName: body.Facility,
		CourseCode:   body.CourseCode,
		StaffName:    body.StaffName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) BookRoom(c *gin.Context) {
	h.bookClass(c, func(c *gin.Context, req schedule.BookRequest) (*schedule.PeriodSlot, error) {
		return h.service.BookRoom(c.Request.Context(), req)
	})
}

func (h *Handler) BookLab(c *gin.Context) {
	h.bookClass(c, func(c *gin.Context, req schedule.BookRequest) (*schedule.PeriodSlot, error) {
		return h.service.BookLab(c.Request.Context(), req)
	})
}

func (h *Handler) BookProjector(c *gin.Context) {
	var body BookProjectorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	slot, err := h.service.BookProjector(c.Request.Context(), auth.GetUserID(c), body.PeriodID, body.Facility)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) Free(c *gin.Context) {
	var body FreeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	slot, err := h.service.FreePeriod(c.Request.Context(), userID, userID, body.PeriodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSlotResponse(slot))
}

// FreeUser releases another user's booking; the owner gets notified.
func (h *Handler) FreeUser(c *gin.Context) {
	var body FreeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	slot, err := h.service.FreePeriod(c.Request.Context(), auth.GetUserID(c), c.Param("userID"), body.PeriodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) Availability(c *gin.Context) {
	periodID := c.Query("period_id")
	if periodID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_id is required"})
		return
	}

	typ := facility.Type(c.DefaultQuery("type", string(facility.TypeRoom)))

	weekStart, ok := parseWeekStart(c)
	if !ok {
		return
	}

	avail, err := h.service.Availability(c.Request.Context(), periodID, weekStart, typ)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AvailabilityResponse, len(avail))
	for i, a := range avail {
		items[i] = AvailabilityResponse{Name: a.Name, Type: a.Type, Free: a.Free}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Resync(c *gin.Context) {
	var body ResyncBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.ResyncSlot(c.Request.Context(), auth.GetUserID(c), body.PeriodID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ensure triggers the instantiation pass on demand, outside the scheduled job.
func (h *Handler) Ensure(c *gin.Context) {
	result, err := h.service.EnsureSchedules(c.Request.Context(), h.horizon)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, EnsureResponse{
		WeeksCreated: result.WeeksCreated,
		UsersFailed:  result.UsersFailed,
	})
}
