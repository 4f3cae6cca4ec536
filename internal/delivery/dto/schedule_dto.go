package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateScheduleRequest struct {
	WorkingDays         []string `json:"working_days" validate:"dive,weekday"` // e.g. ["Mon","Tue"]
	DayStart            string   `json:"day_start" validate:"required,clock"`  // Format: HH:MM
	DayEnd              string   `json:"day_end" validate:"required,clock"`    // Format: HH:MM
	SlotDurationMinutes int      `json:"slot_duration_minutes" validate:"required,gte=5,lte=240"`
}

// Response DTOs

type ScheduleResponse struct {
	ProviderID          uuid.UUID  `json:"provider_id"`
	WorkingDays         []string   `json:"working_days"`
	DayStart            string     `json:"day_start"`
	DayEnd              string     `json:"day_end"`
	SlotDurationMinutes int        `json:"slot_duration_minutes"`
	IsDefault           bool       `json:"is_default"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}
