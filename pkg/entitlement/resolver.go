package entitlement

import (
	"strings"

	"tapcard-be/internal/entity"

	"github.com/google/uuid"
)

// Allowlist is the configured set of super-admin identities, matched by
// stable id or by email (case-insensitive).
type Allowlist struct {
	ids    map[uuid.UUID]struct{}
	emails map[string]struct{}
}

func NewAllowlist(ids []uuid.UUID, emails []string) *Allowlist {
	a := &Allowlist{
		ids:    make(map[uuid.UUID]struct{}, len(ids)),
		emails: make(map[string]struct{}, len(emails)),
	}
	for _, id := range ids {
		a.ids[id] = struct{}{}
	}
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			a.emails[email] = struct{}{}
		}
	}
	return a
}

func (a *Allowlist) Contains(id uuid.UUID, email string) bool {
	if a == nil {
		return false
	}
	if _, ok := a.ids[id]; ok {
		return true
	}
	_, ok := a.emails[strings.ToLower(email)]
	return ok
}

// ResolveRole combines the validated binding, the classified lifecycle and
// the cross-cutting grants into one effective role. First match wins,
// highest privilege first.
//
// A suspended tenant does not demote its admin: the admin keeps the
// CorporateAdmin role (with a restricted permission set) so it can still
// reach the reactivation operation. A suspended tenant's member falls
// through to Personal.
func ResolveRole(
	user *entity.User,
	binding entity.TenantBinding,
	state entity.LifecycleState,
	financialAdmin *entity.FinancialAdminRecord,
	allowlist *Allowlist,
) entity.Role {
	if allowlist.Contains(user.Id, user.Email) {
		return entity.RoleSuperAdmin
	}

	if financialAdmin != nil && financialAdmin.IsActive {
		return entity.RoleFinancialAdmin
	}

	if state.Kind == entity.LifecyclePermanent &&
		user.PermanentPlanType != nil &&
		*user.PermanentPlanType == entity.PermanentPlanCorporate {
		return entity.RolePermanentAdmin
	}

	if binding.Kind == entity.BindingAdmin && state.Kind != entity.LifecyclePastDue {
		return entity.RoleCorporateAdmin
	}

	if binding.Kind == entity.BindingMember && state.Kind != entity.LifecycleSuspended {
		return entity.RoleCorporateMember
	}

	return entity.RolePersonal
}
