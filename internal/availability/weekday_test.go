package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

func TestDayNameRoundTrip(t *testing.T) {
	for d := model.Sunday; d <= model.Saturday; d++ {
		name, ok := DayName(d)
		require.True(t, ok)
		back, ok := DayFromName(name)
		require.True(t, ok)
		assert.Equal(t, d, back)
	}

	_, ok := DayName(7)
	assert.False(t, ok)
	_, ok = DayFromName("mon")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, model.Monday, WeekDayOf(date))
	assert.Equal(t, "2026-10-19", FormatDate(date))

	_, err = ParseDate("19.10.2026")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpcomingDates(t *testing.T) {
	// пятница
	from := time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)

	dates := UpcomingDates(from, model.Monday, 3)
	require.Len(t, dates, 3)
	assert.Equal(t, "2026-10-19", FormatDate(dates[0]))
	assert.Equal(t, "2026-10-26", FormatDate(dates[1]))
	assert.Equal(t, "2026-11-02", FormatDate(dates[2]))

	today := UpcomingDates(from, model.Friday, 1)
	assert.Equal(t, "2026-10-16", FormatDate(today[0]))

	for _, d := range UpcomingDates(from, model.Sunday, 5) {
		assert.Equal(t, model.Sunday, WeekDayOf(d))
	}

	assert.Nil(t, UpcomingDates(from, model.Monday, 0))
}

func TestConvertTime(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*3600)
	newYork := time.FixedZone("EST", -5*3600)

	got, shift := ConvertTime(9.5, monday, time.UTC, moscow)
	assert.Equal(t, model.TimeOfDay(12.5), got)
	assert.Equal(t, 0, shift)

	got, shift = ConvertTime(23, monday, time.UTC, moscow)
	assert.Equal(t, model.TimeOfDay(2), got)
	assert.Equal(t, 1, shift)

	got, shift = ConvertTime(2, monday, time.UTC, newYork)
	assert.Equal(t, model.TimeOfDay(21), got)
	assert.Equal(t, -1, shift)

	got, shift = ConvertTime(10, monday, moscow, moscow)
	assert.Equal(t, model.TimeOfDay(10), got)
	assert.Equal(t, 0, shift)

	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
}
