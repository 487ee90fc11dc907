package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
	"github.com/campuskit/facility-booking-backend/internal/registry"
)

type Handler struct {
	service     registry.Service
	currentWeek func() time.Time
}

func NewHandler(service registry.Service, currentWeek func() time.Time) *Handler {
	return &Handler{service: service, currentWeek: currentWeek}
}

type RowResponse struct {
	WeekStart    string `json:"week_start"`
	PeriodID     string `json:"period_id"`
	FacilityName string `json:"facility_name"`
	FacilityType string `json:"facility_type"`
	Free         bool   `json:"free"`
	BookedBy     string `json:"booked_by,omitempty"`
}

type RebuildResponse struct {
	WeekStart string `json:"week_start"`
	Rows      int    `json:"rows"`
}

func (h *Handler) weekStart(c *gin.Context) (time.Time, bool) {
	raw := c.Query("week_start")
	if raw == "" {
		return h.currentWeek(), true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start, want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) Snapshot(c *gin.Context) {
	weekStart, ok := h.weekStart(c)
	if !ok {
		return
	}

	rows, err := h.service.Snapshot(c.Request.Context(), weekStart, c.Query("period_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RowResponse, len(rows))
	for i, r := range rows {
		items[i] = RowResponse{
			WeekStart:    r.WeekStart.Format(time.DateOnly),
			PeriodID:     r.PeriodID,
			FacilityName: r.FacilityName,
			FacilityType: r.FacilityType,
			Free:         r.Free,
			BookedBy:     r.BookedBy,
		}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Rebuild(c *gin.Context) {
	weekStart, ok := h.weekStart(c)
	if !ok {
		return
	}

	result, err := h.service.Rebuild(c.Request.Context(), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, RebuildResponse{
		WeekStart: result.WeekStart.Format(time.DateOnly),
		Rows:      result.Rows,
	})
}
