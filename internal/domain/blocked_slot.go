package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// BlockedSlot is an administrative exclusion on a single date.
// A full-day block ignores StartTime/EndTime; otherwise [StartTime, EndTime) is excluded.
type BlockedSlot struct {
	ID          uuid.UUID
	BlockedDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsFullDay   bool
	Reason      *string
	CreatedAt   time.Time
}

// Covers reports whether slot t is excluded by a partial block (half-open interval)
func (b *BlockedSlot) Covers(t types.TimeString) bool {
	if b.IsFullDay {
		return true
	}
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return false
	}
	return !t.IsBefore(b.StartTime) && t.IsBefore(b.EndTime)
}
