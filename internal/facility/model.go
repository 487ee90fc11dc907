package facility

import (
	"net/http"
	"strings"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "facility not found")
	ErrAlreadyExists = apperror.New(http.StatusConflict, "facility with this name already exists")
	ErrEmptyName     = apperror.New(http.StatusBadRequest, "facility name cannot be empty")
	ErrInvalidType   = apperror.New(http.StatusBadRequest, "invalid facility type")
)

// Type tags a physical resource with its booking rules: rooms and labs are
// mutually exclusive slot occupants, projectors are independent slot
// sub-resources, halls and auditoriums are booked by time interval.
type Type string

const (
	TypeRoom       Type = "room"
	TypeLab        Type = "lab"
	TypeProjector  Type = "projector"
	TypeHall       Type = "hall"
	TypeAuditorium Type = "auditorium"
)

// Valid reports whether t is a known facility type.
func (t Type) Valid() bool {
	switch t {
	case TypeRoom, TypeLab, TypeProjector, TypeHall, TypeAuditorium:
		return true
	}
	return false
}

// Interval reports whether the type is reserved by date + time range rather
// than by period slot.
func (t Type) Interval() bool {
	return t == TypeHall || t == TypeAuditorium
}

// Facility is a physical resource. Slots reference facilities by name, so the
// normalized name is the real key.
type Facility struct {
	ID        string
	Name      string
	Type      Type
	Bookable  bool
	CreatedAt time.Time
}

// Normalize canonicalizes a facility name for comparison: trim, collapse all
// whitespace, lower-case. "KP 107" and " kp107 " refer to the same room.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
