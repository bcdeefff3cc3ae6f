package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSlot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"19:00", "19:00"},
		{"09:30", "09:30"},
		{"9:30", "09:30"},
		{" 23:59 ", "23:59"},
		{"00:00", "00:00"},
	}
	for _, tt := range tests {
		slot, err := ParseTimeSlot(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, slot.String())
	}
}

func TestParseTimeSlotRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "19:60", "19", "7pm", "19:0", "1900"} {
		_, err := ParseTimeSlot(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestTimeSlotSortsLexicographically(t *testing.T) {
	assert.True(t, TimeSlot("09:30") < TimeSlot("19:00"))
	assert.True(t, TimeSlot("19:00") < TimeSlot("19:30"))
}
