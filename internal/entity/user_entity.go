package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserSubscriptionStatus string

const (
	UserSubscriptionTrialing     UserSubscriptionStatus = "trialing"
	UserSubscriptionActive       UserSubscriptionStatus = "active"
	UserSubscriptionPermanent    UserSubscriptionStatus = "permanent"
	UserSubscriptionGraceExpired UserSubscriptionStatus = "grace_period_expired"
	UserSubscriptionCanceled     UserSubscriptionStatus = "canceled"
	UserSubscriptionNone         UserSubscriptionStatus = "none"
)

type CorporateRoleHint string

const (
	CorporateHintAdmin  CorporateRoleHint = "admin"
	CorporateHintMember CorporateRoleHint = "member"
)

type PermanentPlanType string

const (
	PermanentPlanPersonal  PermanentPlanType = "personal"
	PermanentPlanCorporate PermanentPlanType = "corporate"
)

// User is the account record. TenantId is the member-pointer half of the
// membership duality; the admin half lives on Tenant.AdminUserId.
type User struct {
	Id                 uuid.UUID
	Email              string
	FullName           string
	SubscriptionStatus UserSubscriptionStatus
	TrialEndsAt        *time.Time
	CorporateRoleHint  *CorporateRoleHint
	PermanentPlanType  *PermanentPlanType
	TenantId           *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HintIs reports whether the user's corporate role hint equals the given
// value. A nil hint never matches.
func (u *User) HintIs(hint CorporateRoleHint) bool {
	return u.CorporateRoleHint != nil && *u.CorporateRoleHint == hint
}
