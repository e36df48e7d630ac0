package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId           uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_owner"`
	OwnerType         string    `gorm:"type:varchar(20);not null;index:idx_subscriptions_owner"`
	Plan              string    `gorm:"type:varchar(50);not null"`
	Status            string    `gorm:"type:varchar(50);not null;index"`
	CancelAtPeriodEnd bool      `gorm:"default:false"`
	CurrentPeriodEnd  time.Time `gorm:"not null"`
	ProviderRef       *string   `gorm:"type:varchar(255)"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

type FinancialAdminRecord struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	IsActive  bool      `gorm:"default:true;index"`
	GrantedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (FinancialAdminRecord) TableName() string {
	return "financial_admin_records"
}
