package registry

import (
	"net/http"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var ErrWeekNotBuilt = apperror.New(http.StatusNotFound, "availability registry not built for this week")

// Row is one denormalized availability fact: for a given week and period, a
// facility is free or held by one user. The registry is a cache over the week
// schedules and is rebuilt, never patched.
type Row struct {
	WeekStart    time.Time
	PeriodID     string
	FacilityName string
	FacilityType string
	Free         bool
	BookedBy     string
}

// RebuildResult reports the size of a completed rebuild.
type RebuildResult struct {
	WeekStart time.Time
	Rows      int
}
