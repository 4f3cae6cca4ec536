package handler

import (
	"encoding/json"
	"net/http"

	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"
	"go-appointment-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ProviderAppointmentHandler serves the provider dashboard
type ProviderAppointmentHandler struct {
	appointmentUsecase usecase.ProviderAppointmentUsecase
	validator          *validator.CustomValidator
}

func NewProviderAppointmentHandler(appointmentUsecase usecase.ProviderAppointmentUsecase, validator *validator.CustomValidator) *ProviderAppointmentHandler {
	return &ProviderAppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// List handles GET /provider/appointments?date=YYYY-MM-DD&status=pending
func (h *ProviderAppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := dto.AppointmentFilterRequest{
		Date:   query.Get("date"),
		Status: query.Get("status"),
	}
	if err := h.validator.Validate(&filter); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointments, err := h.appointmentUsecase.ListProviderAppointments(r.Context(), providerID, &filter)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *ProviderAppointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.SetStatus(r.Context(), providerID, appointmentID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *ProviderAppointmentHandler) History(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	history, err := h.appointmentUsecase.GetHistory(r.Context(), providerID, appointmentID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get appointment history")
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", history)
}
