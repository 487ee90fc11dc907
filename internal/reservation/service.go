package reservation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/notify"
	"github.com/campuskit/facility-booking-backend/internal/user"
)

// SlotInterval is one requested time span; multi-slot requests must chain
// back to back and are merged into a single interval.
type SlotInterval struct {
	Start string
	End   string
}

type CreateRequest struct {
	VenueName      string
	Date           time.Time
	Slots          []SlotInterval
	EventName      string
	AdditionalInfo string
	DocumentName   string
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Request, error)
	GetByID(ctx context.Context, id string) (*Request, error)
	List(ctx context.Context, filter Filter) ([]*Request, int, error)

	// Decide moves a request to accepted, rejected or withdrawn on behalf of
	// the reservation desk. Accepting re-checks the interval against other
	// accepted requests atomically, so of two overlapping pending requests
	// only one can be accepted. Withdrawing cancels a pending or accepted
	// request and releases the venue. Every decision notifies the requester.
	Decide(ctx context.Context, id string, to Status) (*Request, error)

	// Withdraw lets the owner retract a pending or accepted request.
	Withdraw(ctx context.Context, userID, id string) (*Request, error)
}

type service struct {
	repo     Repository
	facs     facility.Service
	users    user.Service
	notifier notify.Notifier
}

func NewService(repo Repository, facs facility.Service, users user.Service, notifier notify.Notifier) Service {
	return &service{repo: repo, facs: facs, users: users, notifier: notifier}
}

// mergeSlots validates the requested spans and collapses them into one
// interval. Spans must be well-formed and each must start exactly where the
// previous one ends.
func mergeSlots(slots []SlotInterval) (start, end string, err error) {
	if len(slots) == 0 {
		return "", "", ErrNoSlots
	}
	for _, s := range slots {
		if !ValidTime(s.Start) || !ValidTime(s.End) || s.Start >= s.End {
			return "", "", ErrBadTime
		}
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start != slots[i-1].End {
			return "", "", ErrSlotsNotChained
		}
	}
	return slots[0].Start, slots[len(slots)-1].End, nil
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Request, error) {
	venue, err := s.facs.GetByName(ctx, req.VenueName)
	if err != nil {
		return nil, err
	}
	if !venue.Type.Interval() {
		return nil, ErrNotInterval
	}
	if !venue.Bookable {
		return nil, ErrNotBookable
	}

	start, end, err := mergeSlots(req.Slots)
	if err != nil {
		return nil, err
	}

	r := &Request{
		UserID:         userID,
		VenueName:      venue.Name,
		VenueType:      string(venue.Type),
		Date:           req.Date,
		StartTime:      start,
		EndTime:        end,
		EventName:      req.EventName,
		AdditionalInfo: req.AdditionalInfo,
		DocumentName:   req.DocumentName,
		Status:         StatusPending,
	}

	inserted, err := s.repo.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrOverlap
	}
	return s.repo.GetByID(ctx, r.ID)
}

func (s *service) GetByID(ctx context.Context, id string) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Request, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Decide(ctx context.Context, id string, to Status) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch to {
	case StatusAccepted:
		ok, err := s.repo.Accept(ctx, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Either the request left pending concurrently or an overlapping
			// request got accepted first.
			current, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if current.Status != StatusPending {
				return nil, ErrBadTransition
			}
			return nil, ErrOverlap
		}
	case StatusRejected:
		ok, err := s.repo.SetStatus(ctx, id, StatusPending, StatusRejected)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrBadTransition
		}
	case StatusWithdrawn:
		if req.Status != StatusPending && req.Status != StatusAccepted {
			return nil, ErrBadTransition
		}
		ok, err := s.repo.SetStatus(ctx, id, req.Status, StatusWithdrawn)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrBadTransition
		}
	default:
		return nil, ErrInvalidStatus
	}

	decided, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyDecision(decided)
	return decided, nil
}

func (s *service) Withdraw(ctx context.Context, userID, id string) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, ErrNotOwner
	}
	if req.Status != StatusPending && req.Status != StatusAccepted {
		return nil, ErrBadTransition
	}

	ok, err := s.repo.SetStatus(ctx, id, req.Status, StatusWithdrawn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBadTransition
	}
	return s.repo.GetByID(ctx, id)
}

// notifyDecision mails the requester the outcome. Failures are logged and
// never affect the committed decision.
func (s *service) notifyDecision(req *Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		u, err := s.users.GetByID(ctx, req.UserID)
		if err != nil {
			log.Printf("notify reservation decision: lookup user %s failed: %v", req.UserID, err)
			return
		}
		subject := fmt.Sprintf("Reservation %s: %s", req.Status, req.VenueName)
		body := fmt.Sprintf("Your reservation of %s on %s from %s to %s for %q is %s.",
			req.VenueName, req.Date.Format(time.DateOnly), req.StartTime, req.EndTime,
			req.EventName, req.Status)
		if err := s.notifier.Send(ctx, u.Email, subject, body); err != nil {
			log.Printf("notify reservation decision: send to %s failed: %v", u.Email, err)
		}
	}()
}
