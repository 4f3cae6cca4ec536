package repository

import (
	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderRepository reads provider rows maintained by the account service.
type ProviderRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error)
}
