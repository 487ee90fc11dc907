package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/facility-booking-backend/internal/auth"
	"github.com/campuskit/facility-booking-backend/internal/pkg/response"
	"github.com/campuskit/facility-booking-backend/internal/user"
)

type Handler struct {
	service user.Service
}

func NewHandler(service user.Service) *Handler {
	return &Handler{service: service}
}

// Register creates a single account. Admin only.
func (h *Handler) Register(c *gin.Context) {
	var body RegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.service.Register(c.Request.Context(), user.RegisterRequest{
		ID:       body.ID,
		Email:    body.Email,
		Role:     body.Role,
		Password: body.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewUserResponse(u))
}

// BulkRegister creates many accounts in one call. Admin only.
func (h *Handler) BulkRegister(c *gin.Context) {
	var body BulkRegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	reqs := make([]user.RegisterRequest, len(body.Users))
	for i, u := range body.Users {
		reqs[i] = user.RegisterRequest{ID: u.ID, Email: u.Email, Role: u.Role, Password: u.Password}
	}

	result, err := h.service.BulkRegister(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBulkResultResponse(result))
}

// Login authenticates a user by institution id and password.
func (h *Handler) Login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), body.ID, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

// Me returns the profile of the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}

// List returns every account. Admin only.
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one account by id. Admin only.
func (h *Handler) Get(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(u))
}

// Delete removes one account. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDelete removes many accounts in one call. Admin only.
func (h *Handler) BulkDelete(c *gin.Context) {
	var body BulkDeleteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.BulkDelete(c.Request.Context(), body.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBulkResultResponse(result))
}
