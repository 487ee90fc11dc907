package http

import (
	"time"

	"github.com/campuskit/facility-booking-backend/internal/reservation"
)

type SlotBody struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type CreateBody struct {
	Venue          string     `json:"venue" binding:"required"`
	Date           string     `json:"date" binding:"required"`
	Slots          []SlotBody `json:"slots" binding:"required,min=1"`
	EventName      string     `json:"event_name" binding:"required"`
	AdditionalInfo string     `json:"additional_info"`
	DocumentName   string     `json:"document_name"`
}

type DecideBody struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected withdrawn"`
}

type Response struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Venue          string `json:"venue"`
	VenueType      string `json:"venue_type"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	EventName      string `json:"event_name"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	DocumentName   string `json:"document_name,omitempty"`
	Status         string `json:"status"`
	RequestedAt    string `json:"requested_at"`
}

func NewResponse(r *reservation.Request) Response {
	return Response{
		ID:             r.ID,
		UserID:         r.UserID,
		Venue:          r.VenueName,
		VenueType:      r.VenueType,
		Date:           r.Date.Format(time.DateOnly),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		EventName:      r.EventName,
		AdditionalInfo: r.AdditionalInfo,
		DocumentName:   r.DocumentName,
		Status:         string(r.Status),
		RequestedAt:    r.RequestedAt.Format(time.RFC3339),
	}
}
