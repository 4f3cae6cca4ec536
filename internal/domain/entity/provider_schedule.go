package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DefaultSlotDurationMinutes = 30

// ProviderSchedule is a provider's declared weekly availability.
// Edited only by the provider; read-only input to slot computation.
type ProviderSchedule struct {
	ProviderID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"provider_id"`
	WorkingDays         WeekdaySet     `gorm:"type:varchar(40);not null" json:"working_days"`
	DayStart            datatypes.Time `gorm:"type:time;not null" json:"day_start"`
	DayEnd              datatypes.Time `gorm:"type:time;not null" json:"day_end"`
	SlotDurationMinutes int            `gorm:"not null;default:30" json:"slot_duration_minutes"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProviderSchedule) TableName() string {
	return "provider_schedules"
}

// DefaultProviderSchedule is used for providers that never saved a schedule:
// Monday to Friday, 09:00 to 17:00.
func DefaultProviderSchedule(providerID uuid.UUID, slotMinutes int) *ProviderSchedule {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotDurationMinutes
	}
	return &ProviderSchedule{
		ProviderID:          providerID,
		WorkingDays:         NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday),
		DayStart:            datatypes.NewTime(9, 0, 0, 0),
		DayEnd:              datatypes.NewTime(17, 0, 0, 0),
		SlotDurationMinutes: slotMinutes,
	}
}

// SlotDuration returns the grid step.
func (s *ProviderSchedule) SlotDuration() time.Duration {
	return time.Duration(s.SlotDurationMinutes) * time.Minute
}

// WorksOn reports whether the provider accepts bookings on the given date.
func (s *ProviderSchedule) WorksOn(date time.Time) bool {
	return s.WorkingDays.Contains(WeekdayOf(date))
}
