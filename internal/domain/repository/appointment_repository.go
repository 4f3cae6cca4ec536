package repository

import (
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindBySlot(db *gorm.DB, providerID uuid.UUID, date time.Time, start datatypes.Time) (*entity.Appointment, error)
	FindBookedTimes(db *gorm.DB, providerID uuid.UUID, date time.Time) ([]datatypes.Time, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByProviderID(db *gorm.DB, providerID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, providerID uuid.UUID, status entity.AppointmentStatus) (int64, error)
}
