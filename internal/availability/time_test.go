package availability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

func TestTimeFromPointerOffset_SnapsAndClamps(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		pph    float64
		want   model.TimeOfDay
	}{
		{"exact hour", 180, 20, 9},
		{"rounds down", 184, 20, 9},
		{"rounds to half", 188, 20, 9.5},
		{"rounds up", 196, 20, 10},
		{"negative clamps to zero", -50, 20, 0},
		{"past end clamps to 24", 1000, 20, 24},
		{"zero pixels per hour", 100, 0, 0},
		{"negative pixels per hour", 100, -20, 0},
		{"nan offset", math.NaN(), 20, 0},
		{"infinite offset", math.Inf(1), 20, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeFromPointerOffset(tt.offset, tt.pph))
		})
	}
}

func TestTimeFromPointerOffset_AlwaysOnGrid(t *testing.T) {
	for _, pph := range []float64{7, 20, 33.3, 60} {
		for offset := -100.0; offset <= 2000; offset += 1.7 {
			got := TimeFromPointerOffset(offset, pph)
			assert.GreaterOrEqual(t, float64(got), 0.0)
			assert.LessOrEqual(t, float64(got), 24.0)
			assert.Equal(t, got, Snap(got), "offset=%v pph=%v", offset, pph)
		}
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "9:30am", FormatTime12(9.5))
	assert.Equal(t, "12:00am", FormatTime12(0))
	assert.Equal(t, "12:00pm", FormatTime12(12))
	assert.Equal(t, "1:30pm", FormatTime12(13.5))
	assert.Equal(t, "12:00am", FormatTime12(24))

	assert.Equal(t, "09:30", FormatTime24(9.5))
	assert.Equal(t, "00:00", FormatTime24(0))
	assert.Equal(t, "24:00", FormatTime24(24))
	assert.Equal(t, "09:00-10:30", FormatRange(9, 10.5))

	assert.Equal(t, "12am", FormatHourLabel(0))
	assert.Equal(t, "9am", FormatHourLabel(9))
	assert.Equal(t, "12pm", FormatHourLabel(12))
	assert.Equal(t, "11pm", FormatHourLabel(23))
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, 570, Minutes(9.5))
	assert.Equal(t, model.TimeOfDay(9.5), FromMinutes(570))
	assert.True(t, SameTime(10.0/3, 200.0/60))
}
