package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tenant struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	AccountStatus string    `gorm:"type:varchar(50);not null;default:'active';index"`
	AdminUserId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	MaxUsers      int       `gorm:"default:5"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type InvitationAudit struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	TenantId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Email     string         `gorm:"type:varchar(255);not null"`
	Status    string         `gorm:"type:varchar(50);not null;default:'pending'"`
	InvitedBy uuid.UUID      `gorm:"type:uuid;not null"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (InvitationAudit) TableName() string {
	return "invitation_audits"
}

// IntegrityFlag rows are written by the cleanup consumer when the read path
// detects a membership or subscription inconsistency. Read paths never write
// these directly.
type IntegrityFlag struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind      string         `gorm:"type:varchar(64);not null;index"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	Resolved  bool           `gorm:"default:false;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (IntegrityFlag) TableName() string {
	return "integrity_flags"
}
