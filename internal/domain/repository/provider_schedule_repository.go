package repository

import (
	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderScheduleRepository interface {
	FindByProviderID(db *gorm.DB, providerID uuid.UUID) (*entity.ProviderSchedule, error)
	Upsert(db *gorm.DB, schedule *entity.ProviderSchedule) error
}
