package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/notify"
	"github.com/campuskit/facility-booking-backend/internal/user"
)

// fakeRepo keeps requests in memory and mirrors the conditional semantics of
// the SQL repository: Create and Accept fail when an accepted request of the
// same venue and date overlaps the interval.
type fakeRepo struct {
	requests map[string]*Request
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: make(map[string]*Request)}
}

func (r *fakeRepo) overlapsAccepted(req *Request) bool {
	norm := facility.Normalize(req.VenueName)
	for _, o := range r.requests {
		if o.ID == req.ID || o.Status != StatusAccepted {
			continue
		}
		if facility.Normalize(o.VenueName) != norm || !o.Date.Equal(req.Date) {
			continue
		}
		if Overlaps(o.StartTime, o.EndTime, req.StartTime, req.EndTime) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Create(_ context.Context, req *Request) (bool, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = StatusPending
	}
	if r.overlapsAccepted(req) {
		return false, nil
	}
	clone := *req
	clone.RequestedAt = time.Now()
	clone.UpdatedAt = clone.RequestedAt
	r.requests[req.ID] = &clone
	return true, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Request, int, error) {
	var out []*Request
	for _, req := range r.requests {
		if filter.UserID != "" && req.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) SetStatus(_ context.Context, id string, from, to Status) (bool, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (r *fakeRepo) Accept(_ context.Context, req *Request) (bool, error) {
	stored, ok := r.requests[req.ID]
	if !ok || stored.Status != StatusPending {
		return false, nil
	}
	if r.overlapsAccepted(stored) {
		return false, nil
	}
	stored.Status = StatusAccepted
	return true, nil
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

type fakeUsers struct {
	user.Service
}

func (fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: id, Email: id + "@campus.test"}, nil
}

type fakeNotifier struct {
	sent chan string
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, _ string) error {
	f.sent <- to + ": " + subject
	return nil
}

func newTestService() (Service, *fakeRepo) {
	return newTestServiceNotifying(notify.LogNotifier{})
}

func newTestServiceNotifying(n notify.Notifier) (Service, *fakeRepo) {
	repo := newFakeRepo()
	facs := &fakeFacilities{byName: map[string]*facility.Facility{
		"mainhall":   {ID: "h1", Name: "Main Hall", Type: facility.TypeHall, Bookable: true},
		"auditorium": {ID: "h2", Name: "Auditorium", Type: facility.TypeAuditorium, Bookable: true},
		"kp107":      {ID: "r1", Name: "KP-107", Type: facility.TypeRoom, Bookable: true},
		"closedhall": {ID: "h3", Name: "Closed Hall", Type: facility.TypeHall, Bookable: false},
	}}
	return NewService(repo, facs, fakeUsers{}, n), repo
}

func hallRequest(slots ...SlotInterval) CreateRequest {
	return CreateRequest{
		VenueName: "Main Hall",
		Date:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Slots:     slots,
		EventName: "Tech Symposium",
	}
}

func TestMergeSlots(t *testing.T) {
	t.Run("single slot", func(t *testing.T) {
		start, end, err := mergeSlots([]SlotInterval{{"10:00", "12:00"}})
		require.NoError(t, err)
		assert.Equal(t, "10:00", start)
		assert.Equal(t, "12:00", end)
	})

	t.Run("chained slots merge", func(t *testing.T) {
		start, end, err := mergeSlots([]SlotInterval{
			{"09:00", "10:00"}, {"10:00", "11:00"}, {"11:00", "12:00"},
		})
		require.NoError(t, err)
		assert.Equal(t, "09:00", start)
		assert.Equal(t, "12:00", end)
	})

	t.Run("gap breaks the chain", func(t *testing.T) {
		_, _, err := mergeSlots([]SlotInterval{{"09:00", "10:00"}, {"10:30", "11:00"}})
		assert.ErrorIs(t, err, ErrSlotsNotChained)
	})

	t.Run("overlapping slots break the chain", func(t *testing.T) {
		_, _, err := mergeSlots([]SlotInterval{{"09:00", "10:30"}, {"10:00", "11:00"}})
		assert.ErrorIs(t, err, ErrSlotsNotChained)
	})

	t.Run("bad times", func(t *testing.T) {
		_, _, err := mergeSlots([]SlotInterval{{"9:00", "10:00"}})
		assert.ErrorIs(t, err, ErrBadTime)

		_, _, err = mergeSlots([]SlotInterval{{"12:00", "10:00"}})
		assert.ErrorIs(t, err, ErrBadTime)
	})

	t.Run("no slots", func(t *testing.T) {
		_, _, err := mergeSlots(nil)
		assert.ErrorIs(t, err, ErrNoSlots)
	})
}

func TestCreateValidatesVenue(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req := hallRequest(SlotInterval{"10:00", "12:00"})
	req.VenueName = "KP-107"
	_, err := svc.Create(ctx, "alice", req)
	assert.ErrorIs(t, err, ErrNotInterval)

	req.VenueName = "Closed Hall"
	_, err = svc.Create(ctx, "alice", req)
	assert.ErrorIs(t, err, ErrNotBookable)

	req.VenueName = "Nowhere Hall"
	_, err = svc.Create(ctx, "alice", req)
	assert.ErrorIs(t, err, facility.ErrNotFound)
}

func TestCreateAllowsOverlappingPending(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.Status)

	// Pending requests do not hold the venue, so an overlapping request from
	// another user is accepted into the queue.
	second, err := svc.Create(ctx, "bob", hallRequest(SlotInterval{"11:00", "13:00"}))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, second.Status)
}

func TestCreateRejectedByAcceptedOverlap(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	_, err = svc.Decide(ctx, first.ID, StatusAccepted)
	require.NoError(t, err)

	// Spacing and case in the venue name must not defeat the overlap check.
	req := hallRequest(SlotInterval{"11:00", "13:00"})
	req.VenueName = "main hall"
	_, err = svc.Create(ctx, "bob", req)
	assert.ErrorIs(t, err, ErrOverlap)

	// A back-to-back interval is fine.
	_, err = svc.Create(ctx, "bob", hallRequest(SlotInterval{"12:00", "14:00"}))
	assert.NoError(t, err)

	// So is the same interval in the other venue.
	other := hallRequest(SlotInterval{"11:00", "13:00"})
	other.VenueName = "Auditorium"
	_, err = svc.Create(ctx, "bob", other)
	assert.NoError(t, err)
}

func TestDecideAcceptIsExclusive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	second, err := svc.Create(ctx, "bob", hallRequest(SlotInterval{"11:00", "13:00"}))
	require.NoError(t, err)

	accepted, err := svc.Decide(ctx, first.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)

	// The second pending request can no longer be accepted.
	_, err = svc.Decide(ctx, second.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrOverlap)

	// It can still be rejected.
	rejected, err := svc.Decide(ctx, second.ID, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
}

func TestDecideTransitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)

	_, err = svc.Decide(ctx, req.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Decide(ctx, req.ID, StatusRejected)
	require.NoError(t, err)

	// Rejected requests are final.
	_, err = svc.Decide(ctx, req.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrBadTransition)
	_, err = svc.Decide(ctx, req.ID, StatusWithdrawn)
	assert.ErrorIs(t, err, ErrBadTransition)

	_, err = svc.Decide(ctx, uuid.NewString(), StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideWithdrawCancelsRequest(t *testing.T) {
	notifier := &fakeNotifier{sent: make(chan string, 4)}
	svc, _ := newTestServiceNotifying(notifier)
	ctx := context.Background()

	waitMail := func() string {
		t.Helper()
		select {
		case msg := <-notifier.sent:
			return msg
		case <-time.After(2 * time.Second):
			t.Fatal("expected a notification")
			return ""
		}
	}

	req, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	_, err = svc.Decide(ctx, req.ID, StatusAccepted)
	require.NoError(t, err)
	waitMail() // acceptance mail

	// The desk cancels the accepted request on the requester's behalf.
	withdrawn, err := svc.Decide(ctx, req.ID, StatusWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, withdrawn.Status)

	msg := waitMail()
	assert.Contains(t, msg, "alice@campus.test")
	assert.Contains(t, msg, "withdrawn")

	// The venue is free again for others.
	next, err := svc.Create(ctx, "bob", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	_, err = svc.Decide(ctx, next.ID, StatusAccepted)
	require.NoError(t, err)
	waitMail()

	// A pending request can be withdrawn by the desk as well.
	pending, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"14:00", "15:00"}))
	require.NoError(t, err)
	cancelled, err := svc.Decide(ctx, pending.ID, StatusWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, cancelled.Status)
}

func TestWithdraw(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, "bob", req.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	withdrawn, err := svc.Withdraw(ctx, "alice", req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, withdrawn.Status)

	_, err = svc.Withdraw(ctx, "alice", req.ID)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestWithdrawAcceptedReleasesTheVenue(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req, err := svc.Create(ctx, "alice", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	_, err = svc.Decide(ctx, req.ID, StatusAccepted)
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, "alice", req.ID)
	require.NoError(t, err)

	// The interval is free again for others.
	next, err := svc.Create(ctx, "bob", hallRequest(SlotInterval{"10:00", "12:00"}))
	require.NoError(t, err)
	_, err = svc.Decide(ctx, next.ID, StatusAccepted)
	assert.NoError(t, err)
}
