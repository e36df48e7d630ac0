package membership

import (
	"tapcard-be/internal/entity"
)

// Input carries the raw membership pointers loaded for one subject.
// AdminTenant is the tenant whose admin_user_id equals the subject;
// MemberTenant is the tenant referenced by the subject's own tenant pointer.
type Input struct {
	User         *entity.User
	AdminTenant  *entity.Tenant
	MemberTenant *entity.Tenant
	LatestInvite *entity.InvitationAudit
	InviteTenant *entity.Tenant
}

// Result is the validated binding plus any anomalies detected along the way.
// Issues are signals for asynchronous cleanup; Validate never mutates state.
type Result struct {
	Binding entity.TenantBinding
	Issues  []entity.IntegrityIssue
}

// Validate reconciles a subject's admin and member pointers into one
// TenantBinding.
//
// Both pointers on the same tenant collapse to Admin. Pointers on different
// tenants are a conflict: the corporate role hint picks the winner and the
// loser is flagged for cleanup. A member hint without a tenant pointer is
// repaired from the most recent invitation, but only toward a tenant that is
// not suspended; otherwise the subject binds to nothing and an integrity
// violation is surfaced.
func Validate(in Input) Result {
	res := Result{Binding: entity.NoBinding()}
	user := in.User
	if user == nil {
		return res
	}

	hasAdmin := in.AdminTenant != nil
	hasMember := in.MemberTenant != nil && user.TenantId != nil

	switch {
	case hasAdmin && hasMember:
		if in.AdminTenant.Id == in.MemberTenant.Id {
			// Admin always wins on self-reference.
			res.Binding = entity.AdminBinding(in.AdminTenant.Id)
			return res
		}
		return resolveConflict(in)

	case hasAdmin:
		res.Binding = entity.AdminBinding(in.AdminTenant.Id)
		return res

	case hasMember:
		res.Binding = entity.MemberBinding(in.MemberTenant.Id)
		return res
	}

	// No live pointers. A member hint without a pointer is an orphaned
	// invite; attempt repair from the invitation audit trail.
	if user.HintIs(entity.CorporateHintMember) {
		return repairOrphan(in)
	}
	return res
}

func resolveConflict(in Input) Result {
	res := Result{}
	user := in.User

	res.Issues = append(res.Issues, entity.IntegrityIssue{
		Kind:     entity.IssueDualMembership,
		UserId:   user.Id,
		TenantId: in.MemberTenant.Id,
		Detail:   "subject is admin of one tenant and member of another",
	})

	if user.HintIs(entity.CorporateHintAdmin) {
		res.Binding = entity.AdminBinding(in.AdminTenant.Id)
		res.Issues = append(res.Issues, entity.IntegrityIssue{
			Kind:     entity.IssueDiscardedMemberPtr,
			UserId:   user.Id,
			TenantId: in.MemberTenant.Id,
			Detail:   "member pointer discarded, scheduled for detach",
		})
		return res
	}

	res.Binding = entity.MemberBinding(in.MemberTenant.Id)
	res.Issues = append(res.Issues, entity.IntegrityIssue{
		Kind:     entity.IssueDiscardedAdminPtr,
		UserId:   user.Id,
		TenantId: in.AdminTenant.Id,
		Detail:   "admin pointer discarded, scheduled for review",
	})
	return res
}

func repairOrphan(in Input) Result {
	res := Result{Binding: entity.NoBinding()}
	user := in.User

	if in.LatestInvite == nil || in.InviteTenant == nil {
		res.Issues = append(res.Issues, entity.IntegrityIssue{
			Kind:   entity.IssueUnrepairableOrphan,
			UserId: user.Id,
			Detail: "member hint without tenant pointer and no invitation record",
		})
		return res
	}

	if in.InviteTenant.IsSuspended() {
		res.Issues = append(res.Issues, entity.IntegrityIssue{
			Kind:     entity.IssueSuspendedInviteFound,
			UserId:   user.Id,
			TenantId: in.InviteTenant.Id,
			Detail:   "invitation target tenant is suspended, repair refused",
		})
		return res
	}

	res.Binding = entity.MemberBinding(in.InviteTenant.Id)
	res.Issues = append(res.Issues, entity.IntegrityIssue{
		Kind:     entity.IssueRepairedFromInvite,
		UserId:   user.Id,
		TenantId: in.InviteTenant.Id,
		Detail:   "membership rebound from latest invitation audit",
	})
	return res
}
