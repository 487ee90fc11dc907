package reconcile

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/campuskit/facility-booking-backend/internal/registry"
	"github.com/campuskit/facility-booking-backend/internal/schedule"
)

// Job runs the weekly reconciliation: instantiate missing week schedules over
// the horizon, then rebuild the availability registry for the current week.
// Both steps are idempotent, so overlapping or repeated runs are harmless.
type Job struct {
	schedules schedule.Service
	registry  registry.Service
	horizon   int
	spec      string

	cron *cron.Cron
}

func NewJob(schedules schedule.Service, reg registry.Service, horizonWeeks int, cronSpec string, loc *time.Location) *Job {
	return &Job{
		schedules: schedules,
		registry:  reg,
		horizon:   horizonWeeks,
		spec:      cronSpec,
		cron:      cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the cron entry and fires one run immediately so a fresh
// deployment is consistent without waiting for the next tick.
func (j *Job) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.runOnce); err != nil {
		return err
	}
	j.cron.Start()
	go j.runOnce()
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Job) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()

	ensured, err := j.schedules.EnsureSchedules(ctx, j.horizon)
	if err != nil {
		log.Printf("reconcile: instantiation failed: %v", err)
		return
	}

	weekStart := j.schedules.CurrentWeekStart()
	rebuilt, err := j.registry.Rebuild(ctx, weekStart)
	if err != nil {
		log.Printf("reconcile: registry rebuild for %s failed: %v",
			weekStart.Format("2006-01-02"), err)
		return
	}

	log.Printf("reconcile: done in %s, weeks_created=%d users_failed=%d registry_rows=%d",
		time.Since(start).Round(time.Millisecond),
		ensured.WeeksCreated, ensured.UsersFailed, rebuilt.Rows)
}
