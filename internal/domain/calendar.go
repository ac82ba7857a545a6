package domain

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Window is the inclusive range of bookable dates, both at midnight
type Window struct {
	Earliest time.Time
	Latest   time.Time
}

// CalendarPolicy decides which dates are bookable and which start times exist on a day.
// "Today" is always taken in Location so that the server and the business agree on the date.
type CalendarPolicy struct {
	WindowDays int
	Roster     []types.TimeString
	Location   *time.Location
}

// NewCalendarPolicy builds a policy; a nil location means UTC
func NewCalendarPolicy(windowDays int, roster []types.TimeString, loc *time.Location) *CalendarPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarPolicy{
		WindowDays: windowDays,
		Roster:     roster,
		Location:   loc,
	}
}

// Today returns the current business date at midnight
func (p *CalendarPolicy) Today(now time.Time) time.Time {
	return DateOnly(now.In(p.Location), p.Location)
}

// LegalWindow returns [today, today+WindowDays]
func (p *CalendarPolicy) LegalWindow(now time.Time) Window {
	today := p.Today(now)
	return Window{
		Earliest: today,
		Latest:   today.AddDate(0, 0, p.WindowDays),
	}
}

// InWindow reports whether the calendar day of date falls inside the legal window.
// Only year/month/day of date are used.
func (p *CalendarPolicy) InWindow(date, now time.Time) bool {
	w := p.LegalWindow(now)
	d := DateOnly(date, p.Location)
	return !d.Before(w.Earliest) && !d.After(w.Latest)
}

// DaySlots returns the ordered start times a service may begin at.
// The roster does not depend on the service duration.
func (p *CalendarPolicy) DaySlots(_ *Service) []types.TimeString {
	slots := make([]types.TimeString, len(p.Roster))
	copy(slots, p.Roster)
	return slots
}

// IsRosterSlot reports whether t is one of the fixed start times
func (p *CalendarPolicy) IsRosterSlot(t types.TimeString) bool {
	for _, slot := range p.Roster {
		if slot.Equal(t) {
			return true
		}
	}
	return false
}

// DateOnly keeps the calendar day of t and places it at midnight in loc
func DateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseRoster converts "HH:MM" strings into a roster, preserving order
func ParseRoster(raw []string) ([]types.TimeString, error) {
	roster := make([]types.TimeString, 0, len(raw))
	for _, s := range raw {
		t, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, err
		}
		roster = append(roster, t)
	}
	return roster, nil
}
