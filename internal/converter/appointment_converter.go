package converter

import (
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"

	"github.com/samber/lo"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:         appointment.ID,
		PatientID:  appointment.PatientID,
		ProviderID: appointment.ProviderID,
		Date:       entity.FormatDate(appointment.Date),
		StartTime:  entity.FormatClock(appointment.StartTime),
		Status:     string(appointment.Status),
		Notes:      appointment.Notes,
		CreatedAt:  appointment.CreatedAt,
		UpdatedAt:  appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	return lo.Map(appointments, func(a entity.Appointment, _ int) dto.AppointmentResponse {
		return *AppointmentToResponse(&a)
	})
}
