package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campuskit/facility-booking-backend/internal/facility"
)

func TestClaimKey(t *testing.T) {
	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	nextWeek := week.AddDate(0, 0, 7)

	t.Run("same claim after normalization", func(t *testing.T) {
		a := claimKey(week, "3-2", facility.Normalize("KP-107"))
		b := claimKey(week, "3-2", facility.Normalize("kp 107"))
		assert.Equal(t, a, b, "spelling variants of one facility must contend for one lock")
	})

	t.Run("distinct claims", func(t *testing.T) {
		base := claimKey(week, "3-2", facility.Normalize("KP-107"))
		assert.NotEqual(t, base, claimKey(nextWeek, "3-2", facility.Normalize("KP-107")))
		assert.NotEqual(t, base, claimKey(week, "4-2", facility.Normalize("KP-107")))
		assert.NotEqual(t, base, claimKey(week, "3-2", facility.Normalize("KP-201")))
	})
}
