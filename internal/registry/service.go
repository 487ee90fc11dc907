package registry

import (
	"context"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/schedule"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
)

type Service interface {
	// Rebuild derives the week's registry from the week schedules, the source
	// of truth. Running it twice against unchanged schedules produces the same
	// snapshot, so it is safe to repeat after partial failures.
	Rebuild(ctx context.Context, weekStart time.Time) (*RebuildResult, error)

	Snapshot(ctx context.Context, weekStart time.Time, periodID string) ([]Row, error)
}

type service struct {
	repo  Repository
	facs  facility.Service
	weeks schedule.Repository
}

func NewService(repo Repository, facs facility.Service, weeks schedule.Repository) Service {
	return &service{repo: repo, facs: facs, weeks: weeks}
}

func (s *service) Rebuild(ctx context.Context, weekStart time.Time) (*RebuildResult, error) {
	facs, err := s.facs.ListBookable(ctx, "")
	if err != nil {
		return nil, err
	}

	occs, err := s.weeks.WeekOccupancies(ctx, weekStart, "")
	if err != nil {
		return nil, err
	}

	// Who holds which facility, keyed by (period, normalized name).
	type key struct{ periodID, name string }
	holders := make(map[key]string, len(occs))
	for _, o := range occs {
		for _, name := range []string{o.RoomNo, o.Lab, o.Projector} {
			if name != "" {
				holders[key{o.PeriodID, facility.Normalize(name)}] = o.UserID
			}
		}
	}

	var rows []Row
	for _, f := range facs {
		// Halls and auditoriums are reserved by interval, not by period; they
		// have no place in the per-period registry.
		if f.Type.Interval() {
			continue
		}
		norm := facility.Normalize(f.Name)
		for day := 1; day <= timetable.DaysPerWeek; day++ {
			for periodNo := 1; periodNo <= timetable.PeriodsPerDay; periodNo++ {
				periodID := timetable.PeriodID(periodNo, day)
				bookedBy := holders[key{periodID, norm}]
				rows = append(rows, Row{
					WeekStart:    weekStart,
					PeriodID:     periodID,
					FacilityName: f.Name,
					FacilityType: string(f.Type),
					Free:         bookedBy == "",
					BookedBy:     bookedBy,
				})
			}
		}
	}

	if err := s.repo.ReplaceWeek(ctx, weekStart, rows); err != nil {
		return nil, err
	}
	return &RebuildResult{WeekStart: weekStart, Rows: len(rows)}, nil
}

func (s *service) Snapshot(ctx context.Context, weekStart time.Time, periodID string) ([]Row, error) {
	rows, err := s.repo.Snapshot(ctx, weekStart, periodID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrWeekNotBuilt
	}
	return rows, nil
}
