package handler

import (
	"net/http"

	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SlotHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewSlotHandler(availabilityUsecase usecase.AvailabilityUsecase) *SlotHandler {
	return &SlotHandler{
		availabilityUsecase: availabilityUsecase,
	}
}

// GetOpenSlots handles GET /providers/{providerId}/slots?date=YYYY-MM-DD
func (h *SlotHandler) GetOpenSlots(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(mux.Vars(r)["providerId"])
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.ValidationError(w, map[string]string{"date": "date is required"})
		return
	}

	slots, err := h.availabilityUsecase.GetOpenSlots(r.Context(), providerID, date)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get open slots")
		return
	}

	response.Success(w, http.StatusOK, "Open slots retrieved successfully", slots)
}
