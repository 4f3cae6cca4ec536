package converter

import (
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

// ScheduleToResponse converts a ProviderSchedule entity to ScheduleResponse DTO.
// isDefault marks a schedule synthesized for a provider without a saved row.
func ScheduleToResponse(schedule *entity.ProviderSchedule, isDefault bool) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}

	response := &dto.ScheduleResponse{
		ProviderID:          schedule.ProviderID,
		WorkingDays:         lo.Map(schedule.WorkingDays.Days(), func(d entity.Weekday, _ int) string { return string(d) }),
		DayStart:            entity.FormatClock(schedule.DayStart),
		DayEnd:              entity.FormatClock(schedule.DayEnd),
		SlotDurationMinutes: schedule.SlotDurationMinutes,
		IsDefault:           isDefault,
	}

	if !schedule.UpdatedAt.IsZero() {
		updatedAt := schedule.UpdatedAt
		response.UpdatedAt = &updatedAt
	}

	return response
}

// SlotsToStrings formats slot start times as HH:MM
func SlotsToStrings(slots []datatypes.Time) []string {
	return lo.Map(slots, func(s datatypes.Time, _ int) string {
		return entity.FormatClock(s)
	})
}
