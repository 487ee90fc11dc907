package schedule

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/history"
	"github.com/campuskit/facility-booking-backend/internal/notify"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
	"github.com/campuskit/facility-booking-backend/internal/user"
)

// BookRequest carries the parameters of a room/lab booking against the
// caller's current-week schedule.
type BookRequest struct {
	UserID       string
	PeriodID     string
	FacilityName string
	CourseCode   string
	StaffName    string
}

// EnsureResult reports what an instantiation pass did.
type EnsureResult struct {
	WeeksCreated int
	UsersFailed  int
}

type Service interface {
	// EnsureSchedules materializes missing week schedules for every user over
	// the horizon. Existing weeks are left untouched: instantiation creates,
	// it never overwrites.
	EnsureSchedules(ctx context.Context, horizonWeeks int) (*EnsureResult, error)

	// ResyncSlot pushes one template slot into the current and future weeks
	// after a template edit. Slots holding live bookings are skipped.
	ResyncSlot(ctx context.Context, userID, periodID string) error

	BookRoom(ctx context.Context, req BookRequest) (*PeriodSlot, error)
	BookLab(ctx context.Context, req BookRequest) (*PeriodSlot, error)
	BookProjector(ctx context.Context, userID, periodID, facilityName string) (*PeriodSlot, error)

	// FreePeriod clears whatever the slot holds (room/lab and/or projector).
	// When an administrator frees another user's slot, the owner is notified.
	FreePeriod(ctx context.Context, actorID, userID, periodID string) (*PeriodSlot, error)

	// Availability reports, for every bookable facility of the type, whether
	// any user's slot for (weekStart, periodID) references it.
	Availability(ctx context.Context, periodID string, weekStart time.Time, typ facility.Type) ([]Availability, error)

	WeekView(ctx context.Context, userID string, weekStart time.Time) (*WeekSchedule, error)
	TodayPeriods(ctx context.Context, userID string) ([]PeriodSlot, error)
	ProjectorBookings(ctx context.Context, userID string) ([]PeriodSlot, error)

	// CurrentWeekStart is the Monday the live booking operations target.
	CurrentWeekStart() time.Time
}

type service struct {
	repo      Repository
	templates timetable.Service
	facs      facility.Service
	users     user.Service
	recorder  history.Recorder
	notifier  notify.Notifier

	loc *time.Location
	now func() time.Time
}

func NewService(
	repo Repository,
	templates timetable.Service,
	facs facility.Service,
	users user.Service,
	recorder history.Recorder,
	notifier notify.Notifier,
	loc *time.Location,
	now func() time.Time,
) Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:      repo,
		templates: templates,
		facs:      facs,
		users:     users,
		recorder:  recorder,
		notifier:  notifier,
		loc:       loc,
		now:       now,
	}
}

func (s *service) CurrentWeekStart() time.Time {
	return WeekStart(s.now(), s.loc)
}

func (s *service) EnsureSchedules(ctx context.Context, horizonWeeks int) (*EnsureResult, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for instantiation failed: %w", err)
	}

	result := &EnsureResult{}
	for _, id := range ids {
		slots, err := s.templateOrDefault(ctx, id)
		if err != nil {
			log.Printf("instantiation: load template for %s failed: %v", id, err)
			result.UsersFailed++
			continue
		}

		// Each (user, week) write is independent: a failure mid-loop leaves
		// already-written weeks intact and is retried on the next run.
		for offset := 0; offset < horizonWeeks; offset++ {
			weekStart := WeekStartWithOffset(s.now(), s.loc, offset)
			created, err := s.repo.CreateWeek(ctx, newWeekFromTemplate(id, weekStart, slots))
			if err != nil {
				log.Printf("instantiation: create week %s for %s failed: %v",
					weekStart.Format("2006-01-02"), id, err)
				result.UsersFailed++
				break
			}
			if created {
				result.WeeksCreated++
			}
		}
	}
	return result, nil
}

func (s *service) templateOrDefault(ctx context.Context, userID string) ([]timetable.Slot, error) {
	t, err := s.templates.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, timetable.ErrNotFound) {
			return timetable.DefaultGrid(), nil
		}
		return nil, err
	}
	return t.Periods, nil
}

func (s *service) ResyncSlot(ctx context.Context, userID, periodID string) error {
	periodNo, day, err := timetable.ParsePeriodID(periodID)
	if err != nil {
		return err
	}

	slots, err := s.templateOrDefault(ctx, userID)
	if err != nil {
		return err
	}
	tpl := slots[timetable.SlotIndex(periodNo, day)]

	weeks, err := s.repo.ListWeekStarts(ctx, userID)
	if err != nil {
		return err
	}

	current := s.CurrentWeekStart()
	skipped := 0
	for _, w := range weeks {
		if w.Before(current) {
			continue
		}
		applied, err := s.repo.ResyncSlot(ctx, userID, w, periodID, tpl)
		if err != nil {
			return err
		}
		if !applied {
			skipped++
		}
	}
	if skipped > 0 {
		return ErrSlotNotFree
	}
	return nil
}

// resolveFacility looks up the facility by normalized name and checks it is
// bookable and of the expected type.
func (s *service) resolveFacility(ctx context.Context, name string, typ facility.Type) (*facility.Facility, error) {
	if facility.Normalize(name) == "" {
		return nil, ErrNameRequired
	}
	f, err := s.facs.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if f.Type != typ {
		return nil, ErrWrongType
	}
	if !f.Bookable {
		return nil, ErrNotBookable
	}
	return f, nil
}

func (s *service) BookRoom(ctx context.Context, req BookRequest) (*PeriodSlot, error) {
	return s.bookClass(ctx, req, facility.TypeRoom, VenueRoom)
}

func (s *service) BookLab(ctx context.Context, req BookRequest) (*PeriodSlot, error) {
	return s.bookClass(ctx, req, facility.TypeLab, VenueLab)
}

func (s *service) bookClass(ctx context.Context, req BookRequest, typ facility.Type, venue ClassVenue) (*PeriodSlot, error) {
	_, day, err := timetable.ParsePeriodID(req.PeriodID)
	if err != nil {
		return nil, err
	}

	f, err := s.resolveFacility(ctx, req.FacilityName, typ)
	if err != nil {
		return nil, err
	}

	weekStart := s.CurrentWeekStart()

	// Single conditional commit: occupancy and cross-user exclusivity are
	// checked inside the UPDATE itself.
	committed, err := s.repo.AssignClass(ctx, req.UserID, weekStart, req.PeriodID,
		venue, f.Name, req.CourseCode, req.StaffName)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, s.classifyClassFailure(ctx, req.UserID, weekStart, req.PeriodID)
	}

	if err := s.recorder.Record(ctx, req.UserID, req.PeriodID, f.Name, string(f.Type),
		false, SlotDate(weekStart, day)); err != nil {
		log.Printf("history record for %s booking failed: %v", f.Name, err)
	}

	return s.repo.GetSlot(ctx, req.UserID, weekStart, req.PeriodID)
}

// classifyClassFailure turns a failed conditional class commit into the
// precise error: missing slot, occupied slot, or facility taken by another
// user's schedule.
func (s *service) classifyClassFailure(ctx context.Context, userID string, weekStart time.Time, periodID string) error {
	slot, err := s.repo.GetSlot(ctx, userID, weekStart, periodID)
	if err != nil {
		return err
	}
	if slot.Occupied() {
		return ErrSlotOccupied
	}
	return ErrFacilityConflict
}

func (s *service) BookProjector(ctx context.Context, userID, periodID, facilityName string) (*PeriodSlot, error) {
	_, day, err := timetable.ParsePeriodID(periodID)
	if err != nil {
		return nil, err
	}

	f, err := s.resolveFacility(ctx, facilityName, facility.TypeProjector)
	if err != nil {
		return nil, err
	}

	weekStart := s.CurrentWeekStart()

	committed, err := s.repo.AssignProjector(ctx, userID, weekStart, periodID, f.Name)
	if err != nil {
		return nil, err
	}
	if !committed {
		slot, err := s.repo.GetSlot(ctx, userID, weekStart, periodID)
		if err != nil {
			return nil, err
		}
		if slot.Projector != "" {
			return nil, ErrProjectorBooked
		}
		return nil, ErrFacilityConflict
	}

	if err := s.recorder.Record(ctx, userID, periodID, f.Name, string(f.Type),
		false, SlotDate(weekStart, day)); err != nil {
		log.Printf("history record for %s booking failed: %v", f.Name, err)
	}

	return s.repo.GetSlot(ctx, userID, weekStart, periodID)
}

func (s *service) FreePeriod(ctx context.Context, actorID, userID, periodID string) (*PeriodSlot, error) {
	_, day, err := timetable.ParsePeriodID(periodID)
	if err != nil {
		return nil, err
	}

	weekStart := s.CurrentWeekStart()

	slot, err := s.repo.GetSlot(ctx, userID, weekStart, periodID)
	if err != nil {
		return nil, err
	}

	// Room/lab before projector, matching the resources actually in use.
	type freed struct{ name, typ string }
	var toFree []freed
	if slot.RoomNo != "" {
		toFree = append(toFree, freed{slot.RoomNo, string(facility.TypeRoom)})
	}
	if slot.Lab != "" {
		toFree = append(toFree, freed{slot.Lab, string(facility.TypeLab)})
	}
	if slot.Projector != "" {
		toFree = append(toFree, freed{slot.Projector, string(facility.TypeProjector)})
	}
	if len(toFree) == 0 {
		return nil, ErrNothingToFree
	}

	// Compare-and-set against the state we just read; a concurrent booking or
	// free in between makes the commit a no-op and the caller retries.
	committed, err := s.repo.ClearSlot(ctx, userID, weekStart, periodID, slot)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, ErrConcurrentChange
	}

	usageDate := SlotDate(weekStart, day)
	for _, f := range toFree {
		if err := s.recorder.Record(ctx, userID, periodID, f.name, f.typ, true, usageDate); err != nil {
			log.Printf("history record for freeing %s failed: %v", f.name, err)
		}
	}

	if actorID != "" && actorID != userID {
		s.notifyFreed(userID, periodID, toFree[0].name)
	}

	return s.repo.GetSlot(ctx, userID, weekStart, periodID)
}

// notifyFreed tells the slot owner an administrator released their booking.
// Delivery failure never unwinds the committed free.
func (s *service) notifyFreed(userID, periodID, facilityName string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			log.Printf("notify freed: lookup user %s failed: %v", userID, err)
			return
		}
		subject := "Booking released by administrator"
		body := fmt.Sprintf("Your booking of %s for period %s was released by an administrator.",
			facilityName, periodID)
		if err := s.notifier.Send(ctx, u.Email, subject, body); err != nil {
			log.Printf("notify freed: send to %s failed: %v", u.Email, err)
		}
	}()
}

func (s *service) Availability(ctx context.Context, periodID string, weekStart time.Time, typ facility.Type) ([]Availability, error) {
	if _, _, err := timetable.ParsePeriodID(periodID); err != nil {
		return nil, err
	}
	if weekStart.IsZero() {
		weekStart = s.CurrentWeekStart()
	}

	facs, err := s.facs.ListBookable(ctx, typ)
	if err != nil {
		return nil, err
	}

	occs, err := s.repo.WeekOccupancies(ctx, weekStart, periodID)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, o := range occs {
		for _, name := range []string{o.RoomNo, o.Lab, o.Projector} {
			if name != "" {
				used[facility.Normalize(name)] = true
			}
		}
	}

	out := make([]Availability, 0, len(facs))
	for _, f := range facs {
		out = append(out, Availability{
			Name: f.Name,
			Type: string(f.Type),
			Free: !used[facility.Normalize(f.Name)],
		})
	}
	return out, nil
}

func (s *service) WeekView(ctx context.Context, userID string, weekStart time.Time) (*WeekSchedule, error) {
	if weekStart.IsZero() {
		weekStart = s.CurrentWeekStart()
	}
	return s.repo.GetWeek(ctx, userID, weekStart)
}

func (s *service) TodayPeriods(ctx context.Context, userID string) ([]PeriodSlot, error) {
	now := s.now().In(s.loc)
	day := (int(now.Weekday()) + 6) % 7 // Monday = 0
	if day >= timetable.DaysPerWeek {
		return []PeriodSlot{}, nil // weekend
	}

	ws, err := s.repo.GetWeek(ctx, userID, s.CurrentWeekStart())
	if err != nil {
		return nil, err
	}

	var out []PeriodSlot
	for _, p := range ws.Periods {
		if p.Day == day+1 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) ProjectorBookings(ctx context.Context, userID string) ([]PeriodSlot, error) {
	ws, err := s.repo.GetWeek(ctx, userID, s.CurrentWeekStart())
	if err != nil {
		return nil, err
	}

	var out []PeriodSlot
	for _, p := range ws.Periods {
		if p.Projector != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
