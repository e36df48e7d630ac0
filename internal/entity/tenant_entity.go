package entity

import (
	"time"

	"github.com/google/uuid"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is a corporate account. It always has exactly one admin; member
// users carry the tenant id on their own row.
type Tenant struct {
	Id            uuid.UUID
	Name          string
	AccountStatus TenantStatus
	AdminUserId   uuid.UUID
	MaxUsers      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t *Tenant) IsSuspended() bool {
	return t.AccountStatus == TenantStatusSuspended
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRevoked  InvitationStatus = "revoked"
)

// InvitationAudit is the historical record of member invitations. The
// membership validator scans the most recent accepted row when repairing an
// orphaned member hint.
type InvitationAudit struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TenantId  uuid.UUID
	Email     string
	Status    InvitationStatus
	InvitedBy uuid.UUID
	CreatedAt time.Time
}
