package history

import (
	"context"
	"time"
)

// Recorder is the write side of the ledger. It is called by the booking
// engines after every committed transition, never by HTTP handlers.
type Recorder interface {
	Record(ctx context.Context, userID, periodID, facilityName, facilityType string, free bool, usageDate time.Time) error
}

type Service interface {
	Recorder
	Query(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, userID, periodID, facilityName, facilityType string, free bool, usageDate time.Time) error {
	return s.repo.Insert(ctx, &Entry{
		UserID:       userID,
		PeriodID:     periodID,
		FacilityName: facilityName,
		FacilityType: facilityType,
		Free:         free,
		UsageDate:    usageDate,
	})
}

func (s *service) Query(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	return s.repo.Query(ctx, filter)
}
