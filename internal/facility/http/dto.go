package http

import (
	"time"

	"github.com/campuskit/facility-booking-backend/internal/facility"
)

type CreateBody struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=room lab projector hall auditorium"`
	Bookable *bool  `json:"bookable"`
}

type UpdateBody struct {
	Name     *string `json:"name"`
	Bookable *bool   `json:"bookable"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Bookable  bool      `json:"bookable"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(f *facility.Facility) Response {
	return Response{
		ID:        f.ID,
		Name:      f.Name,
		Type:      string(f.Type),
		Bookable:  f.Bookable,
		CreatedAt: f.CreatedAt,
	}
}
