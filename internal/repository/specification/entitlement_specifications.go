package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByAdminUserID finds the tenant administered by a given user.
type ByAdminUserID struct {
	UserID uuid.UUID
}

func (s ByAdminUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("admin_user_id = ?", s.UserID)
}

// ByOwner filters subscriptions by their polymorphic owner.
type ByOwner struct {
	OwnerID   uuid.UUID
	OwnerType string
}

func (s ByOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ? AND owner_type = ?", s.OwnerID, s.OwnerType)
}

// ByTenantID filters by tenant_id column.
type ByTenantID struct {
	TenantID uuid.UUID
}

func (s ByTenantID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}

// ActiveOnly filters financial admin records to active grants.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
