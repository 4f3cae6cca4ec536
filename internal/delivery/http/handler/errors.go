package handler

import (
	"errors"
	"net/http"

	"go-appointment-booking/internal/delivery/http/middleware"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"

	"github.com/google/uuid"
)

// writeUsecaseError maps a usecase error kind to its status code.
// Errors outside the taxonomy are infrastructure failures and hide their detail.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrAuthorization):
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

// currentUserID reads the authenticated user, writing 401 when it is absent
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
	}
	return userID, ok
}
