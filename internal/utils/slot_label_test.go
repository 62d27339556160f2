package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	minutes, err := ParseLabel("19:30")
	require.NoError(t, err)
	assert.Equal(t, 19*60+30, minutes)

	for _, bad := range []string{"", "19", "24:00", "19:5", "ab:00", "19:60"} {
		_, err := ParseLabel(bad)
		assert.Error(t, err, bad)
	}
}

func TestNormalizeLabel(t *testing.T) {
	label, err := NormalizeLabel("9:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", label)
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	start, end, err := DayBounds("2025-07-14", loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-14T00:00:00+02:00", start.Format(time.RFC3339))
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = DayBounds("14/07/2025", loc)
	assert.Error(t, err)
}

func TestLabelOf(t *testing.T) {
	ts := time.Date(2025, 7, 14, 8, 5, 0, 0, time.UTC)
	assert.Equal(t, "08:05", LabelOf(ts))
	assert.True(t, ValidDate("2025-07-14"))
	assert.False(t, ValidDate("2025-13-14"))
}

func TestSlotStartKeepsWallClockOnDSTDays(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	cases := map[string]string{
		"2025-03-30": "2025-03-30T19:00:00+02:00",
		"2025-10-26": "2025-10-26T19:00:00+01:00",
		"2025-07-14": "2025-07-14T19:00:00+02:00",
	}
	for date, want := range cases {
		start, err := SlotStart(date, "19:00", loc)
		require.NoError(t, err, date)
		assert.Equal(t, want, start.Format(time.RFC3339), date)
		assert.Equal(t, "19:00", LabelOf(start), date)
	}

	_, err = SlotStart("2025-03-30", "25:00", loc)
	assert.Error(t, err)
	_, err = SlotStart("30/03/2025", "19:00", loc)
	assert.Error(t, err)
}
