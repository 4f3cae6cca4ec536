package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Every rejection a usecase returns wraps exactly one of these;
// anything else is an infrastructure failure passed through unchanged.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAuthorization = errors.New("not authorized")
)

var (
	ErrInvalidDate         = fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
	ErrInvalidTimeFormat   = fmt.Errorf("%w: invalid time format, use HH:MM", ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: unknown appointment status", ErrValidation)
	ErrInvalidTransition   = fmt.Errorf("%w: status transition not allowed", ErrValidation)
	ErrOffGridStartTime    = fmt.Errorf("%w: start time is not on the provider's slot grid", ErrValidation)
	ErrInvalidWorkingDays  = fmt.Errorf("%w: unknown working day", ErrValidation)
	ErrInvalidWorkingHours = fmt.Errorf("%w: day start must be before day end", ErrValidation)
	ErrInvalidSlotDuration = fmt.Errorf("%w: slot duration must be between %d and %d minutes", ErrValidation, minSlotDurationMinutes, maxSlotDurationMinutes)

	ErrProviderNotFound    = fmt.Errorf("%w: provider not found", ErrNotFound)
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", ErrNotFound)

	ErrSlotTaken = fmt.Errorf("%w: slot is already booked", ErrConflict)

	ErrNotAppointmentOwner = fmt.Errorf("%w: appointment does not belong to you", ErrAuthorization)
)

const (
	minSlotDurationMinutes = 5
	maxSlotDurationMinutes = 240
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
