package repository

import (
	"errors"
	"time"

	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindBySlot returns the appointment holding the triple, whatever its status.
func (r *appointmentRepository) FindBySlot(db *gorm.DB, providerID uuid.UUID, date time.Time, start datatypes.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("provider_id = ? AND date = ? AND start_time = ?", providerID, datatypes.Date(date), start).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindBookedTimes lists every occupied start time of the provider on date.
// No status frees a slot, so none is filtered out.
func (r *appointmentRepository) FindBookedTimes(db *gorm.DB, providerID uuid.UUID, date time.Time) ([]datatypes.Time, error) {
	var times []datatypes.Time
	err := db.Model(&entity.Appointment{}).
		Where("provider_id = ? AND date = ?", providerID, datatypes.Date(date)).
		Order("start_time ASC").
		Pluck("start_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("patient_id = ?", patientID).
		Order("date DESC, start_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByProviderID(db *gorm.DB, providerID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Where("provider_id = ?", providerID)

	if filter != nil {
		if filter.Date != nil {
			query = query.Where("date = ?", datatypes.Date(*filter.Date))
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
	}

	err := query.Order("date ASC, start_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus changes the status only when the row belongs to providerID.
// Returns affected rows: 1 = updated, 0 = not found or not owned.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, providerID uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND provider_id = ?", id, providerID).
		Update("status", status)
	return result.RowsAffected, result.Error
}
