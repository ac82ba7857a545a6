package domain

import (
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// AvailabilityInput everything needed to resolve free slots for one service on one date
type AvailabilityInput struct {
	Service      *Service
	Candidates   []types.TimeString // roster for the day, in order
	Appointments []*Appointment     // appointments on the date; inactive ones are ignored
	Blocks       []*BlockedSlot     // blocked slots on the date

	// BlockOverlapping also rejects candidates whose [t, t+duration) intersects
	// an active appointment interval. Off by default: only equal start times collide.
	BlockOverlapping bool
}

// ResolveAvailableSlots returns the subset of candidates that can be booked, in roster order.
// A full-day block empties the result regardless of bookings.
// Start times at which the service would run past midnight are never offered.
func ResolveAvailableSlots(in AvailabilityInput) []types.TimeString {
	available := make([]types.TimeString, 0, len(in.Candidates))

	for _, b := range in.Blocks {
		if b.IsFullDay {
			return available
		}
	}

	taken := make(map[types.TimeString]struct{}, len(in.Appointments))
	for _, a := range in.Appointments {
		if a.IsActive() {
			taken[a.StartTime] = struct{}{}
		}
	}

	for _, t := range in.Candidates {
		if _, ok := taken[t]; ok {
			continue
		}
		if isBlocked(t, in.Blocks) {
			continue
		}
		if in.Service != nil {
			if _, err := in.Service.EndTimeFor(t); err != nil {
				// would run past midnight
				continue
			}
		}
		if in.BlockOverlapping && overlapsActive(t, in.Service, in.Appointments) {
			continue
		}
		available = append(available, t)
	}

	return available
}

// ContainsSlot reports whether t is in slots
func ContainsSlot(slots []types.TimeString, t types.TimeString) bool {
	for _, s := range slots {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

func isBlocked(t types.TimeString, blocks []*BlockedSlot) bool {
	for _, b := range blocks {
		if b.Covers(t) {
			return true
		}
	}
	return false
}

// overlapsActive checks [t, t+duration) against every active [start, end)
func overlapsActive(t types.TimeString, service *Service, appointments []*Appointment) bool {
	if service == nil {
		return false
	}
	end, err := service.EndTimeFor(t)
	if err != nil {
		return true
	}

	for _, a := range appointments {
		if !a.IsActive() || a.EndTime.IsZero() {
			continue
		}
		if a.StartTime.IsBefore(end) && a.EndTime.IsAfter(t) {
			return true
		}
	}
	return false
}
