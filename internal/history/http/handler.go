package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/history"
	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
)

type Handler struct {
	service history.Service
}

func NewHandler(service history.Service) *Handler {
	return &Handler{service: service}
}

// Query lists ledger entries, optionally filtered by facility name substring
// and usage date.
func (h *Handler) Query(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	filter := history.Filter{
		FacilityName: c.Query("facility"),
		UserID:       c.Query("user_id"),
		Page:         page,
		PageSize:     pageSize,
	}

	if v := c.Query("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		filter.UsageDate = &t
	}

	entries, total, err := h.service.Query(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewEntryResponse(e)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}
