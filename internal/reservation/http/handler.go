package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
	"github.com/campuskit/facility-booking-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(time.DateOnly, body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	slots := make([]reservation.SlotInterval, len(body.Slots))
	for i, s := range body.Slots {
		slots[i] = reservation.SlotInterval{Start: s.Start, End: s.End}
	}

	req, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), reservation.CreateRequest{
		VenueName:      body.Venue,
		Date:           date,
		Slots:          slots,
		EventName:      body.EventName,
		AdditionalInfo: body.AdditionalInfo,
		DocumentName:   body.DocumentName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewResponse(req))
}

// List shows the caller's own requests; administrators see everyone's and may
// filter by user.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	filter := reservation.Filter{
		VenueName: c.Query("venue"),
		Status:    reservation.Status(c.Query("status")),
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	if auth.IsAdmin(c) {
		filter.UserID = c.Query("user_id")
	} else {
		filter.UserID = auth.GetUserID(c)
	}

	if v := c.Query("date"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		filter.Date = &t
	}

	reqs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]Response, len(reqs))
	for i, r := range reqs {
		items[i] = NewResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.UserID != auth.GetUserID(c) && !auth.IsAdmin(c) {
		response.Error(c, reservation.ErrNotOwner)
		return
	}
	c.JSON(http.StatusOK, NewResponse(req))
}

func (h *Handler) Withdraw(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	req, err := h.service.Withdraw(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(req))
}

func (h *Handler) Decide(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body DecideBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := h.service.Decide(c.Request.Context(), id, reservation.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(req))
}
