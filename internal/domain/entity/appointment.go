package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

var (
	ErrUnknownStatus     = errors.New("unknown appointment status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ParseAppointmentStatus accepts exactly one of the four recognized values.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Appointment represents a booked slot. Appointments are never deleted and
// keep their slot claimed whatever their status.
type Appointment struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_appointments_slot,priority:1" json:"provider_id"`
	Date       datatypes.Date    `gorm:"type:date;not null;uniqueIndex:uq_appointments_slot,priority:2" json:"date"`
	StartTime  datatypes.Time    `gorm:"type:time;not null;uniqueIndex:uq_appointments_slot,priority:3" json:"start_time"`
	Status     AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes      string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time         `gorm:"autoCreateTime;<-:create" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsOwnedBy checks if the appointment belongs to the provider
func (a *Appointment) IsOwnedBy(providerID uuid.UUID) bool {
	return a.ProviderID == providerID
}

// CanTransitionTo reports whether the status machine allows moving to next.
// Every state, including completed and rejected, may move to accepted,
// rejected or completed. Pending is only ever the initial state.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch next {
	case AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCompleted:
		return true
	}
	return false
}

// TransitionTo applies next or returns ErrInvalidTransition.
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	if !a.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	return nil
}

// SlotKey identifies the (provider, date, start time) triple.
func (a *Appointment) SlotKey() string {
	return SlotKey(a.ProviderID, time.Time(a.Date), a.StartTime)
}

// SlotKey formats a triple as provider:YYYY-MM-DD:HH:MM.
func SlotKey(providerID uuid.UUID, date time.Time, start datatypes.Time) string {
	return fmt.Sprintf("%s:%s:%s", providerID, date.Format(DateLayout), FormatClock(start))
}
