package repository

import (
	"errors"

	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type providerScheduleRepository struct{}

func NewProviderScheduleRepository() domainRepo.ProviderScheduleRepository {
	return &providerScheduleRepository{}
}

func (r *providerScheduleRepository) FindByProviderID(db *gorm.DB, providerID uuid.UUID) (*entity.ProviderSchedule, error) {
	var schedule entity.ProviderSchedule
	err := db.Where("provider_id = ?", providerID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// Upsert inserts the schedule or replaces the existing row of the provider.
func (r *providerScheduleRepository) Upsert(db *gorm.DB, schedule *entity.ProviderSchedule) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"working_days", "day_start", "day_end", "slot_duration_minutes", "updated_at"}),
	}).Create(schedule).Error
}
