package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CancelRequest GORM model for subscription cancellation requests
type CancelRequest struct {
	Id             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionId uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason         string    `gorm:"type:text"`
	Status         string    `gorm:"type:varchar(50);default:'pending';index"` // pending, approved, rejected
	AdminNotes     string    `gorm:"type:text"`
	EffectiveDate  time.Time `gorm:"not null"` // usually current_period_end
	ProcessedBy    *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt    *time.Time
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	// Relations
	Subscription Subscription `gorm:"foreignKey:SubscriptionId"`
	User         User         `gorm:"foreignKey:UserId"`
}

func (CancelRequest) TableName() string {
	return "cancel_requests"
}
