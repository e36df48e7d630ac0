package entity

import (
	"time"

	"github.com/google/uuid"
)

// BindingKind discriminates a subject's validated tenant relationship.
type BindingKind string

const (
	BindingNone   BindingKind = "none"
	BindingAdmin  BindingKind = "admin"
	BindingMember BindingKind = "member"
)

// TenantBinding is the output of the membership validator. TenantId is only
// meaningful when Kind is Admin or Member.
type TenantBinding struct {
	Kind     BindingKind
	TenantId uuid.UUID
}

func NoBinding() TenantBinding {
	return TenantBinding{Kind: BindingNone}
}

func AdminBinding(tenantId uuid.UUID) TenantBinding {
	return TenantBinding{Kind: BindingAdmin, TenantId: tenantId}
}

func MemberBinding(tenantId uuid.UUID) TenantBinding {
	return TenantBinding{Kind: BindingMember, TenantId: tenantId}
}

// LifecycleKind is the closed set of subscription lifecycle states.
type LifecycleKind string

const (
	LifecycleTrialing        LifecycleKind = "trialing"
	LifecycleActive          LifecycleKind = "active"
	LifecycleGrace           LifecycleKind = "grace"
	LifecyclePastDue         LifecycleKind = "past_due"
	LifecycleCanceledPending LifecycleKind = "canceled_pending"
	LifecycleSuspended       LifecycleKind = "suspended"
	LifecyclePermanent       LifecycleKind = "permanent"
)

// AllLifecycleKinds is used by the policy table totality check.
var AllLifecycleKinds = []LifecycleKind{
	LifecycleTrialing,
	LifecycleActive,
	LifecycleGrace,
	LifecyclePastDue,
	LifecycleCanceledPending,
	LifecycleSuspended,
	LifecyclePermanent,
}

// LifecycleState carries the classified state plus its payload:
// DaysRemaining for Trialing/Grace, EffectiveAt for CanceledPending.
type LifecycleState struct {
	Kind          LifecycleKind
	DaysRemaining int
	EffectiveAt   time.Time
}

// Role is the effective role resolved for a subject, highest privilege wins.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleFinancialAdmin  Role = "financial_admin"
	RolePermanentAdmin  Role = "permanent_admin"
	RoleCorporateAdmin  Role = "corporate_admin"
	RoleCorporateMember Role = "corporate_member"
	RolePersonal        Role = "personal"
)

// AllRoles is used by the policy table totality check.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleFinancialAdmin,
	RolePermanentAdmin,
	RoleCorporateAdmin,
	RoleCorporateMember,
	RolePersonal,
}

// PermissionSet is the immutable capability record produced by the policy
// engine. No capability is ever granted by omission.
type PermissionSet struct {
	ManageUsers           bool
	ManageSubscriptions   bool
	ManageFinancialAdmins bool
	ViewFinancialData     bool
	ManageFinancialData   bool
	ManageNotifications   bool
	ManageEmails          bool
	ViewProfiles          bool
	AccessSystemInfo      bool
	ViewCancelRequests    bool
	ProcessCancelRequests bool
	ExportUserData        bool
}

// Capability names a single PermissionSet field for routing table lookups.
type Capability string

const (
	CapManageUsers           Capability = "manage_users"
	CapManageSubscriptions   Capability = "manage_subscriptions"
	CapManageFinancialAdmins Capability = "manage_financial_admins"
	CapViewFinancialData     Capability = "view_financial_data"
	CapManageFinancialData   Capability = "manage_financial_data"
	CapManageNotifications   Capability = "manage_notifications"
	CapManageEmails          Capability = "manage_emails"
	CapViewProfiles          Capability = "view_profiles"
	CapAccessSystemInfo      Capability = "access_system_info"
	CapViewCancelRequests    Capability = "view_cancel_requests"
	CapProcessCancelRequests Capability = "process_cancel_requests"
	CapExportUserData        Capability = "export_user_data"
)

// Has reports whether the set grants the named capability.
func (p PermissionSet) Has(cap Capability) bool {
	switch cap {
	case CapManageUsers:
		return p.ManageUsers
	case CapManageSubscriptions:
		return p.ManageSubscriptions
	case CapManageFinancialAdmins:
		return p.ManageFinancialAdmins
	case CapViewFinancialData:
		return p.ViewFinancialData
	case CapManageFinancialData:
		return p.ManageFinancialData
	case CapManageNotifications:
		return p.ManageNotifications
	case CapManageEmails:
		return p.ManageEmails
	case CapViewProfiles:
		return p.ViewProfiles
	case CapAccessSystemInfo:
		return p.AccessSystemInfo
	case CapViewCancelRequests:
		return p.ViewCancelRequests
	case CapProcessCancelRequests:
		return p.ProcessCancelRequests
	case CapExportUserData:
		return p.ExportUserData
	}
	return false
}

// Entitlement is the full resolver output consumed by middleware and the API.
type Entitlement struct {
	SubjectId   uuid.UUID
	Role        Role
	Lifecycle   LifecycleState
	Permissions PermissionSet
	Binding     TenantBinding
	HomePath    string
}

// IntegrityIssueKind classifies anomalies detected on the read path. They are
// published for asynchronous cleanup, never applied inline.
type IntegrityIssueKind string

const (
	IssueDualMembership       IntegrityIssueKind = "dual_membership"
	IssueOrphanedMemberHint   IntegrityIssueKind = "orphaned_member_hint"
	IssueStrayPendingSub      IntegrityIssueKind = "stray_pending_subscription"
	IssueDiscardedAdminPtr    IntegrityIssueKind = "discarded_admin_pointer"
	IssueDiscardedMemberPtr   IntegrityIssueKind = "discarded_member_pointer"
	IssueUnrepairableOrphan   IntegrityIssueKind = "unrepairable_orphan"
	IssueRepairedFromInvite   IntegrityIssueKind = "repaired_from_invitation"
	IssueSuspendedInviteFound IntegrityIssueKind = "invitation_tenant_suspended"
)

// IntegrityIssue describes one detected inconsistency for the cleanup
// consumer and for observability.
type IntegrityIssue struct {
	Kind           IntegrityIssueKind
	UserId         uuid.UUID
	TenantId       uuid.UUID
	SubscriptionId uuid.UUID
	Detail         string
}
