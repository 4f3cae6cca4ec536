package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	ProviderID uuid.UUID `json:"provider_id" validate:"required"`
	Date       string    `json:"date" validate:"required,date"`       // Format: YYYY-MM-DD
	StartTime  string    `json:"start_time" validate:"required,clock"` // Format: HH:MM
	Notes      string    `json:"notes" validate:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AppointmentFilterRequest struct {
	Date   string `json:"date" validate:"omitempty,date"`
	Status string `json:"status" validate:"omitempty,oneof=pending accepted rejected completed"`
}

// Response DTOs

type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AppointmentHistoryResponse struct {
	AppointmentID uuid.UUID          `json:"appointment_id"`
	Entries       []AuditEntryResponse `json:"entries"`
}
