package handler

import (
	"encoding/json"
	"net/http"

	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"
	"go-appointment-booking/pkg/validator"
)

// AppointmentHandler serves the patient side of booking
type AppointmentHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.AttemptBook(r.Context(), patientID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	appointments, err := h.bookingUsecase.ListPatientAppointments(r.Context(), patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
