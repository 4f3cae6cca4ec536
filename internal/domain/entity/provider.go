package entity

import (
	"time"

	"github.com/google/uuid"
)

// Provider is the bookable side of an appointment (a doctor).
// Rows are owned by the account service; this service only reads them.
type Provider struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization string    `gorm:"type:varchar(100);index" json:"specialization"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Schedule *ProviderSchedule `gorm:"foreignKey:ProviderID" json:"schedule,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}

// IsBookable checks whether the provider may receive new appointments.
// An admin-rejected provider is deactivated rather than deleted.
func (p *Provider) IsBookable() bool {
	return p.IsVerified && p.IsActive
}
