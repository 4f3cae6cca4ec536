package entity

import "time"

// AppointmentFilter narrows provider appointment listings.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	Date   *time.Time         // exact calendar date
	Status *AppointmentStatus // exact status
}
