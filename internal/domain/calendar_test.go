package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

func testPolicy(t *testing.T, loc *time.Location) *CalendarPolicy {
	t.Helper()
	roster, err := ParseRoster(DefaultTimeSlots)
	require.NoError(t, err)
	return NewCalendarPolicy(DefaultWindowDays, roster, loc)
}

func TestCalendarPolicy_InWindow(t *testing.T) {
	p := testPolicy(t, time.UTC)
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday", time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), false},
		{"today", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"today with time of day", time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC), true},
		{"last day", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"past last day", time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.InWindow(tt.date, now))
		})
	}
}

func TestCalendarPolicy_TodayFollowsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	p := testPolicy(t, loc)

	// 02:00 UTC is 23:00 of the previous day in Sao Paulo
	now := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)

	today := p.Today(now)
	assert.Equal(t, 1, today.Day())
	assert.Equal(t, time.June, today.Month())

	w := p.LegalWindow(now)
	assert.Equal(t, "2025-06-01", w.Earliest.Format(DateFormat))
	assert.Equal(t, "2025-07-01", w.Latest.Format(DateFormat))
}

func TestCalendarPolicy_DaySlotsIsACopy(t *testing.T) {
	p := testPolicy(t, time.UTC)

	slots := p.DaySlots(nil)
	require.Len(t, slots, 9)
	slots[0] = "07:00"

	assert.Equal(t, types.TimeString("08:00"), p.Roster[0])
}

func TestCalendarPolicy_IsRosterSlot(t *testing.T) {
	p := testPolicy(t, time.UTC)

	assert.True(t, p.IsRosterSlot("08:00"))
	assert.True(t, p.IsRosterSlot("17:00"))
	assert.False(t, p.IsRosterSlot("12:00"))
	assert.False(t, p.IsRosterSlot("08:30"))
}

func TestParseRoster(t *testing.T) {
	roster, err := ParseRoster([]string{"09:00:00", "10:00"})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, roster)

	_, err = ParseRoster([]string{"25:00"})
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)
}
