package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "KP107", "kp107"},
		{"strips inner spaces", "KP 107", "kp107"},
		{"strips padding", "  kp107  ", "kp107"},
		{"collapses tabs and newlines", "Ground\tFloor\nLab", "groundfloorlab"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypeRoom, TypeLab, TypeProjector, TypeHall, TypeAuditorium} {
		assert.True(t, typ.Valid(), string(typ))
	}
	assert.False(t, Type("classroom").Valid())
	assert.False(t, Type("").Valid())
}

func TestTypeInterval(t *testing.T) {
	assert.True(t, TypeHall.Interval())
	assert.True(t, TypeAuditorium.Interval())
	assert.False(t, TypeRoom.Interval())
	assert.False(t, TypeLab.Interval())
	assert.False(t, TypeProjector.Interval())
}
