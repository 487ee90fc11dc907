package http

import (
	"time"

	"github.com/campuskit/facility-booking-backend/internal/history"
)

type EntryResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PeriodID     string    `json:"period_id"`
	FacilityName string    `json:"facility_name"`
	FacilityType string    `json:"facility_type"`
	Free         bool      `json:"free"`
	UsageDate    string    `json:"usage_date"`
	RecordedAt   time.Time `json:"recorded_at"`
}

func NewEntryResponse(e *history.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		PeriodID:     e.PeriodID,
		FacilityName: e.FacilityName,
		FacilityType: e.FacilityType,
		Free:         e.Free,
		UsageDate:    e.UsageDate.Format("2006-01-02"),
		RecordedAt:   e.RecordedAt,
	}
}
