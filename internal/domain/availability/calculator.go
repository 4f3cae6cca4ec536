// Package availability computes the open slots of a provider on a date.
//
// Everything here is pure: the same schedule, bookings and date always give
// the same slots, so callers can compute them speculatively without locking.
// The result is advisory; the booking path re-checks the slot at commit time.
package availability

import (
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

// CandidateSlots returns the full slot grid of a working day: from DayStart,
// stepping by the slot duration, keeping only slots that end by DayEnd.
// A trailing partial interval is dropped.
func CandidateSlots(schedule *entity.ProviderSchedule) []datatypes.Time {
	if schedule == nil || schedule.SlotDurationMinutes <= 0 || schedule.DayStart >= schedule.DayEnd {
		return nil
	}

	step := schedule.SlotDuration()
	end := time.Duration(schedule.DayEnd)

	var slots []datatypes.Time
	for t := time.Duration(schedule.DayStart); t+step <= end; t += step {
		slots = append(slots, datatypes.Time(t))
	}
	return slots
}

// ComputeOpenSlots returns the ascending start times still free on date.
// Dates outside the working days yield an empty result; bookedTimes holds
// every start time already taken on that date regardless of status.
func ComputeOpenSlots(schedule *entity.ProviderSchedule, bookedTimes []datatypes.Time, date time.Time) []datatypes.Time {
	if schedule == nil || !schedule.WorksOn(date) {
		return []datatypes.Time{}
	}

	booked := lo.SliceToMap(bookedTimes, func(t datatypes.Time) (datatypes.Time, struct{}) {
		return t, struct{}{}
	})

	// the grid is generated in ascending order, filtering keeps it
	return lo.Filter(CandidateSlots(schedule), func(t datatypes.Time, _ int) bool {
		_, taken := booked[t]
		return !taken
	})
}

// IsOnGrid reports whether start is one of the schedule's candidate slots.
func IsOnGrid(schedule *entity.ProviderSchedule, start datatypes.Time) bool {
	return lo.Contains(CandidateSlots(schedule), start)
}
