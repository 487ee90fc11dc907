package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
	"github.com/campuskit/facility-booking-backend/internal/user"
)

// fakeRepo mirrors the conditional-commit semantics of the SQL repository in
// memory, so the service's decision logic can be tested without a database.
type fakeRepo struct {
	mu    sync.Mutex
	weeks map[string]*WeekSchedule
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{weeks: make(map[string]*WeekSchedule)}
}

func weekKey(userID string, weekStart time.Time) string {
	return userID + "|" + weekStart.Format(time.DateOnly)
}

func (r *fakeRepo) CreateWeek(_ context.Context, ws *WeekSchedule) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := weekKey(ws.UserID, ws.WeekStart)
	if _, ok := r.weeks[key]; ok {
		return false, nil
	}
	clone := &WeekSchedule{UserID: ws.UserID, WeekStart: ws.WeekStart,
		Periods: append([]PeriodSlot(nil), ws.Periods...)}
	r.weeks[key] = clone
	return true, nil
}

func (r *fakeRepo) GetWeek(_ context.Context, userID string, weekStart time.Time) (*WeekSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.weeks[weekKey(userID, weekStart)]
	if !ok {
		return nil, ErrWeekNotFound
	}
	clone := &WeekSchedule{UserID: ws.UserID, WeekStart: ws.WeekStart,
		Periods: append([]PeriodSlot(nil), ws.Periods...)}
	return clone, nil
}

func (r *fakeRepo) slot(userID string, weekStart time.Time, periodID string) *PeriodSlot {
	ws, ok := r.weeks[weekKey(userID, weekStart)]
	if !ok {
		return nil
	}
	for i := range ws.Periods {
		if ws.Periods[i].PeriodID == periodID {
			return &ws.Periods[i]
		}
	}
	return nil
}

func (r *fakeRepo) GetSlot(_ context.Context, userID string, weekStart time.Time, periodID string) (*PeriodSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slot(userID, weekStart, periodID)
	if s == nil {
		return nil, ErrSlotNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeRepo) ListWeekStarts(_ context.Context, userID string) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var weeks []time.Time
	for _, ws := range r.weeks {
		if ws.UserID == userID {
			weeks = append(weeks, ws.WeekStart)
		}
	}
	return weeks, nil
}

func (r *fakeRepo) facilityInUse(weekStart time.Time, periodID, norm string, projector bool) bool {
	for _, ws := range r.weeks {
		if !ws.WeekStart.Equal(weekStart) {
			continue
		}
		for _, p := range ws.Periods {
			if p.PeriodID != periodID {
				continue
			}
			if projector {
				if facility.Normalize(p.Projector) == norm {
					return true
				}
			} else if facility.Normalize(p.RoomNo) == norm || facility.Normalize(p.Lab) == norm {
				return true
			}
		}
	}
	return false
}

func (r *fakeRepo) AssignClass(_ context.Context, userID string, weekStart time.Time, periodID string,
	venue ClassVenue, facilityName, courseCode, staffName string) (bool, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slot(userID, weekStart, periodID)
	if s == nil || !s.Free || s.RoomNo != "" || s.Lab != "" {
		return false, nil
	}
	if r.facilityInUse(weekStart, periodID, facility.Normalize(facilityName), false) {
		return false, nil
	}
	s.Free = false
	if venue == VenueRoom {
		s.RoomNo = facilityName
	} else {
		s.Lab = facilityName
	}
	s.CourseCode = courseCode
	s.StaffName = staffName
	return true, nil
}

func (r *fakeRepo) AssignProjector(_ context.Context, userID string, weekStart time.Time, periodID string,
	facilityName string) (bool, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slot(userID, weekStart, periodID)
	if s == nil || s.Projector != "" {
		return false, nil
	}
	if r.facilityInUse(weekStart, periodID, facility.Normalize(facilityName), true) {
		return false, nil
	}
	s.Projector = facilityName
	return true, nil
}

func (r *fakeRepo) ClearSlot(_ context.Context, userID string, weekStart time.Time, periodID string,
	observed *PeriodSlot) (bool, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slot(userID, weekStart, periodID)
	if s == nil {
		return false, nil
	}
	if s.RoomNo != observed.RoomNo || s.Lab != observed.Lab || s.Projector != observed.Projector {
		return false, nil
	}
	s.Free = true
	s.RoomNo = ""
	s.Lab = ""
	s.Projector = ""
	s.CourseCode = ""
	s.StaffName = ""
	return true, nil
}

func (r *fakeRepo) ResyncSlot(_ context.Context, userID string, weekStart time.Time, periodID string,
	tpl timetable.Slot) (bool, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slot(userID, weekStart, periodID)
	if s == nil {
		return false, nil
	}
	if !s.Free || s.Projector != "" || s.CourseCode != "" {
		return false, nil
	}
	s.Free = tpl.Free
	s.RoomNo = tpl.RoomNo
	s.Lab = tpl.Lab
	s.CourseCode = tpl.CourseCode
	s.StaffName = tpl.StaffName
	s.StartTime = tpl.StartTime
	s.EndTime = tpl.EndTime
	return true, nil
}

func (r *fakeRepo) WeekOccupancies(_ context.Context, weekStart time.Time, periodID string) ([]Occupancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var occs []Occupancy
	for _, ws := range r.weeks {
		if !ws.WeekStart.Equal(weekStart) {
			continue
		}
		for _, p := range ws.Periods {
			if periodID != "" && p.PeriodID != periodID {
				continue
			}
			if p.RoomNo == "" && p.Lab == "" && p.Projector == "" {
				continue
			}
			occs = append(occs, Occupancy{UserID: ws.UserID, PeriodID: p.PeriodID,
				RoomNo: p.RoomNo, Lab: p.Lab, Projector: p.Projector})
		}
	}
	return occs, nil
}

type fakeTimetables struct {
	timetable.Service
	templates map[string]*timetable.Template
}

func (f *fakeTimetables) GetByUser(_ context.Context, userID string) (*timetable.Template, error) {
	t, ok := f.templates[userID]
	if !ok {
		return nil, timetable.ErrNotFound
	}
	return t, nil
}

type fakeFacilities struct {
	facility.Service
	byName map[string]*facility.Facility
}

func (f *fakeFacilities) GetByName(_ context.Context, name string) (*facility.Facility, error) {
	fac, ok := f.byName[facility.Normalize(name)]
	if !ok {
		return nil, facility.ErrNotFound
	}
	return fac, nil
}

func (f *fakeFacilities) ListBookable(_ context.Context, typ facility.Type) ([]*facility.Facility, error) {
	var out []*facility.Facility
	for _, fac := range f.byName {
		if !fac.Bookable {
			continue
		}
		if typ == "" || fac.Type == typ {
			out = append(out, fac)
		}
	}
	return out, nil
}

type fakeUsers struct {
	user.Service
	ids    []string
	emails map[string]string
}

func (f *fakeUsers) ListIDs(context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	email, ok := f.emails[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id, Email: email}, nil
}

type recordedEntry struct {
	userID, periodID, facilityName, facilityType string
	free                                         bool
	usageDate                                    time.Time
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (f *fakeRecorder) Record(_ context.Context, userID, periodID, facilityName, facilityType string,
	free bool, usageDate time.Time) error {

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedEntry{userID, periodID, facilityName, facilityType, free, usageDate})
	return nil
}

func (f *fakeRecorder) all() []recordedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEntry(nil), f.entries...)
}

type fakeNotifier struct {
	sent chan string // receives recipient emails
}

func (f *fakeNotifier) Send(_ context.Context, toEmail, _, _ string) error {
	f.sent <- toEmail
	return nil
}

type fixture struct {
	repo     *fakeRepo
	recorder *fakeRecorder
	notifier *fakeNotifier
	service  Service
	now      time.Time
}

// newFixture wires the service against fakes with two users, a few facilities
// and the clock frozen on Wednesday 2026-09-02.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{sent: make(chan string, 4)}
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	facs := &fakeFacilities{byName: map[string]*facility.Facility{
		"kp107":          {ID: "f1", Name: "KP-107", Type: facility.TypeRoom, Bookable: true},
		"kp201":          {ID: "f2", Name: "KP-201", Type: facility.TypeRoom, Bookable: true},
		"groundfloorlab": {ID: "f3", Name: "Ground Floor Lab", Type: facility.TypeLab, Bookable: true},
		"proj1":          {ID: "f4", Name: "PROJ-1", Type: facility.TypeProjector, Bookable: true},
		"proj2":          {ID: "f5", Name: "PROJ-2", Type: facility.TypeProjector, Bookable: true},
		"oldhall":        {ID: "f6", Name: "Old Hall", Type: facility.TypeRoom, Bookable: false},
	}}
	users := &fakeUsers{
		ids: []string{"alice", "bob"},
		emails: map[string]string{
			"alice": "alice@campus.test",
			"bob":   "bob@campus.test",
		},
	}
	templates := &fakeTimetables{templates: map[string]*timetable.Template{}}

	svc := NewService(repo, templates, facs, users, recorder, notifier,
		time.UTC, func() time.Time { return now })

	// Materialize the current week for both users.
	_, err := svc.EnsureSchedules(context.Background(), 1)
	require.NoError(t, err)

	return &fixture{repo: repo, recorder: recorder, notifier: notifier, service: svc, now: now}
}

func TestEnsureSchedulesIsCreateOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// First pass already ran in the fixture for one week; extend the horizon.
	result, err := f.service.EnsureSchedules(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, result.WeeksCreated, "two users, two new weeks each")
	assert.Zero(t, result.UsersFailed)

	// Book something, then rerun: existing weeks must not be touched.
	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "3-1", FacilityName: "KP-107"})
	require.NoError(t, err)

	result, err = f.service.EnsureSchedules(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, result.WeeksCreated)

	slot, err := f.repo.GetSlot(ctx, "alice", f.service.CurrentWeekStart(), "3-1")
	require.NoError(t, err)
	assert.Equal(t, "KP-107", slot.RoomNo)
}

func TestBookRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.service.BookRoom(ctx, BookRequest{
		UserID: "alice", PeriodID: "2-3", FacilityName: "KP-107",
		CourseCode: "CS201", StaffName: "Dr. Rao",
	})
	require.NoError(t, err)
	assert.False(t, slot.Free)
	assert.Equal(t, "KP-107", slot.RoomNo)
	assert.Equal(t, "CS201", slot.CourseCode)

	entries := f.recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].userID)
	assert.Equal(t, "KP-107", entries[0].facilityName)
	assert.False(t, entries[0].free)
	// 2-3 is Wednesday of the current week.
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), entries[0].usageDate)
}

func TestBookRoomValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "9-1", FacilityName: "KP-107"})
	assert.ErrorIs(t, err, timetable.ErrInvalidPeriod)

	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "KP-999"})
	assert.ErrorIs(t, err, facility.ErrNotFound)

	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "PROJ-1"})
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "Old Hall"})
	assert.ErrorIs(t, err, ErrNotBookable)

	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestBookRoomOccupiedSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "KP-107"})
	require.NoError(t, err)

	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "KP-201"})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// A lab cannot land on the occupied slot either.
	_, err = f.service.BookLab(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "Ground Floor Lab"})
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestBookRoomCrossUserExclusion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "4-2", FacilityName: "KP-107"})
	require.NoError(t, err)

	// Same room, same period, different user: spacing and case must not
	// defeat the exclusion.
	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "bob", PeriodID: "4-2", FacilityName: "kp 107"})
	assert.ErrorIs(t, err, ErrFacilityConflict)

	// A different period is fine.
	_, err = f.service.BookRoom(ctx, BookRequest{UserID: "bob", PeriodID: "5-2", FacilityName: "KP-107"})
	assert.NoError(t, err)
}

func TestBookProjector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Projector booking is independent of class occupancy.
	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "1-1", FacilityName: "KP-107"})
	require.NoError(t, err)

	slot, err := f.service.BookProjector(ctx, "alice", "1-1", "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "PROJ-1", slot.Projector)
	assert.Equal(t, "KP-107", slot.RoomNo)

	// The slot already carries a projector.
	_, err = f.service.BookProjector(ctx, "alice", "1-1", "PROJ-2")
	assert.ErrorIs(t, err, ErrProjectorBooked)

	// Another user wants the same projector in the same period.
	_, err = f.service.BookProjector(ctx, "bob", "1-1", "proj 1")
	assert.ErrorIs(t, err, ErrFacilityConflict)

	_, err = f.service.BookProjector(ctx, "bob", "1-1", "PROJ-2")
	assert.NoError(t, err)
}

func TestFreePeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "3-4", FacilityName: "KP-107"})
	require.NoError(t, err)
	_, err = f.service.BookProjector(ctx, "alice", "3-4", "PROJ-1")
	require.NoError(t, err)

	slot, err := f.service.FreePeriod(ctx, "alice", "alice", "3-4")
	require.NoError(t, err)
	assert.True(t, slot.Free)
	assert.Empty(t, slot.RoomNo)
	assert.Empty(t, slot.Projector)

	// Two booking entries plus one freeing entry per released facility.
	var freed []recordedEntry
	for _, e := range f.recorder.all() {
		if e.free {
			freed = append(freed, e)
		}
	}
	require.Len(t, freed, 2)

	// Freeing an empty slot is an error.
	_, err = f.service.FreePeriod(ctx, "alice", "alice", "3-4")
	assert.ErrorIs(t, err, ErrNothingToFree)

	// Self-service freeing sends no notification.
	select {
	case email := <-f.notifier.sent:
		t.Fatalf("unexpected notification to %s", email)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFreePeriodByAdminNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "bob", PeriodID: "6-5", FacilityName: "KP-201"})
	require.NoError(t, err)

	_, err = f.service.FreePeriod(ctx, "alice", "bob", "6-5")
	require.NoError(t, err)

	select {
	case email := <-f.notifier.sent:
		assert.Equal(t, "bob@campus.test", email)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification to the slot owner")
	}
}

func TestResyncSlotSkipsLiveBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "2-2", FacilityName: "KP-107"})
	require.NoError(t, err)

	// The booked slot refuses the template push.
	err = f.service.ResyncSlot(ctx, "alice", "2-2")
	assert.ErrorIs(t, err, ErrSlotNotFree)

	// An untouched slot accepts it.
	err = f.service.ResyncSlot(ctx, "alice", "7-2")
	assert.NoError(t, err)
}

func TestAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookRoom(ctx, BookRequest{UserID: "alice", PeriodID: "5-3", FacilityName: "KP-107"})
	require.NoError(t, err)

	avail, err := f.service.Availability(ctx, "5-3", time.Time{}, facility.TypeRoom)
	require.NoError(t, err)

	byName := make(map[string]bool, len(avail))
	for _, a := range avail {
		byName[a.Name] = a.Free
	}
	require.Contains(t, byName, "KP-107")
	assert.False(t, byName["KP-107"])
	assert.True(t, byName["KP-201"])
	// Non-bookable facilities are not listed.
	assert.NotContains(t, byName, "Old Hall")

	// Another period sees everything free.
	avail, err = f.service.Availability(ctx, "6-3", time.Time{}, facility.TypeRoom)
	require.NoError(t, err)
	for _, a := range avail {
		assert.True(t, a.Free, a.Name)
	}
}

func TestTodayPeriods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The fixture clock is Wednesday: 8 periods of day 3.
	slots, err := f.service.TodayPeriods(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, slots, 8)
	for _, s := range slots {
		assert.Equal(t, 3, s.Day)
	}
}

func TestTodayPeriodsOnWeekend(t *testing.T) {
	repo := newFakeRepo()
	sunday := time.Date(2026, 9, 6, 10, 0, 0, 0, time.UTC)
	svc := NewService(repo, &fakeTimetables{templates: map[string]*timetable.Template{}},
		&fakeFacilities{byName: map[string]*facility.Facility{}},
		&fakeUsers{ids: []string{"alice"}, emails: map[string]string{}},
		&fakeRecorder{}, &fakeNotifier{sent: make(chan string, 1)},
		time.UTC, func() time.Time { return sunday })

	_, err := svc.EnsureSchedules(context.Background(), 1)
	require.NoError(t, err)

	slots, err := svc.TodayPeriods(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestProjectorBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.BookProjector(ctx, "alice", "1-1", "PROJ-1")
	require.NoError(t, err)
	_, err = f.service.BookProjector(ctx, "alice", "2-4", "PROJ-2")
	require.NoError(t, err)

	slots, err := f.service.ProjectorBookings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, slots, 2)
}
