package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

func roster(slots ...string) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, types.TimeString(s))
	}
	return out
}

func TestResolveAvailableSlots(t *testing.T) {
	service := &Service{DurationMinutes: 60, IsActive: true}
	day := roster("08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00")

	tests := []struct {
		name string
		in   AvailabilityInput
		want []types.TimeString
	}{
		{
			name: "empty day returns full roster",
			in:   AvailabilityInput{Service: service, Candidates: day},
			want: day,
		},
		{
			name: "active appointments take their start time",
			in: AvailabilityInput{
				Service:    service,
				Candidates: day,
				Appointments: []*Appointment{
					{StartTime: "09:00", Status: StatusConfirmed},
					{StartTime: "13:00", Status: StatusPending},
				},
			},
			want: roster("08:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"),
		},
		{
			name: "inactive appointments free their slot",
			in: AvailabilityInput{
				Service:    service,
				Candidates: day,
				Appointments: []*Appointment{
					{StartTime: "09:00", Status: StatusCancelled},
					{StartTime: "10:00", Status: StatusCompleted},
				},
			},
			want: day,
		},
		{
			name: "partial block excludes start and keeps end",
			in: AvailabilityInput{
				Service:    service,
				Candidates: day,
				Blocks:     []*BlockedSlot{{StartTime: "14:00", EndTime: "16:00"}},
			},
			want: roster("08:00", "09:00", "10:00", "11:00", "13:00", "16:00", "17:00"),
		},
		{
			name: "full-day block wins over everything",
			in: AvailabilityInput{
				Service:      service,
				Candidates:   day,
				Appointments: []*Appointment{{StartTime: "09:00", Status: StatusPending}},
				Blocks:       []*BlockedSlot{{StartTime: "10:00", EndTime: "11:00"}, {IsFullDay: true}},
			},
			want: roster(),
		},
		{
			name: "candidates past midnight are skipped",
			in: AvailabilityInput{
				Service:    &Service{DurationMinutes: 7 * 60},
				Candidates: roster("16:00", "17:00"),
			},
			want: roster("16:00"),
		},
		{
			name: "overlap mode rejects intersecting intervals",
			in: AvailabilityInput{
				Service:          &Service{DurationMinutes: 90},
				Candidates:       roster("08:00", "09:00", "10:00", "11:00"),
				Appointments:     []*Appointment{{StartTime: "09:30", EndTime: "10:30", Status: StatusPending}},
				BlockOverlapping: true,
			},
			want: roster("08:00", "11:00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAvailableSlots(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockedSlot_Covers(t *testing.T) {
	partial := &BlockedSlot{StartTime: "10:00", EndTime: "12:00"}

	assert.False(t, partial.Covers("09:00"))
	assert.True(t, partial.Covers("10:00"))
	assert.True(t, partial.Covers("11:00"))
	assert.False(t, partial.Covers("12:00"))

	full := &BlockedSlot{IsFullDay: true}
	assert.True(t, full.Covers("08:00"))
}

func TestContainsSlot(t *testing.T) {
	slots := roster("08:00", "09:00")

	assert.True(t, ContainsSlot(slots, "09:00"))
	assert.False(t, ContainsSlot(slots, "10:00"))
	assert.False(t, ContainsSlot(nil, "08:00"))
}
