package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type SubscriptionPlan string
type OwnerType string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPending  SubscriptionStatus = "pending"

	PlanMonthly    SubscriptionPlan = "monthly"
	PlanYearly     SubscriptionPlan = "yearly"
	PlanStarter    SubscriptionPlan = "starter"
	PlanBusiness   SubscriptionPlan = "business"
	PlanEnterprise SubscriptionPlan = "enterprise"

	OwnerTypeUser   OwnerType = "user"
	OwnerTypeTenant OwnerType = "tenant"
)

// Subscription is owned either by a User (personal plans) or a Tenant
// (corporate plans). Canceled rows are soft-retained for audit.
type Subscription struct {
	Id                uuid.UUID
	OwnerId           uuid.UUID
	OwnerType         OwnerType
	Plan              SubscriptionPlan
	Status            SubscriptionStatus
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  time.Time
	ProviderRef       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
