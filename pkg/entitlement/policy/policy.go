package policy

import (
	"fmt"

	"tapcard-be/internal/entity"
)

// Engine is a pure lookup table keyed by (Role, LifecycleKind). The table is
// total: every pair is mapped at construction time and a missing pair is a
// configuration error, never a default grant or denial at lookup time.
type Engine struct {
	table map[pairKey]entity.PermissionSet
}

type pairKey struct {
	role entity.Role
	kind entity.LifecycleKind
}

// New builds the policy table and verifies totality.
func New() (*Engine, error) {
	e := &Engine{table: make(map[pairKey]entity.PermissionSet)}

	for _, kind := range entity.AllLifecycleKinds {
		e.set(entity.RoleSuperAdmin, kind, superAdminGrant())
		e.set(entity.RoleFinancialAdmin, kind, financialAdminGrant())
		e.set(entity.RolePermanentAdmin, kind, corporateAdminGrant())
	}

	for _, kind := range entity.AllLifecycleKinds {
		switch kind {
		case entity.LifecycleSuspended, entity.LifecyclePastDue:
			// Suspended tenant admins keep their role but lose every
			// capability; reaching the reactivation operation is a routing
			// concern, not a capability.
			e.set(entity.RoleCorporateAdmin, kind, entity.PermissionSet{})
		default:
			e.set(entity.RoleCorporateAdmin, kind, corporateAdminGrant())
		}
	}

	for _, kind := range entity.AllLifecycleKinds {
		switch kind {
		case entity.LifecycleSuspended, entity.LifecyclePastDue:
			e.set(entity.RoleCorporateMember, kind, entity.PermissionSet{})
		default:
			e.set(entity.RoleCorporateMember, kind, memberGrant())
		}
	}

	for _, kind := range entity.AllLifecycleKinds {
		switch kind {
		case entity.LifecycleSuspended, entity.LifecyclePastDue:
			e.set(entity.RolePersonal, kind, entity.PermissionSet{})
		default:
			e.set(entity.RolePersonal, kind, personalGrant())
		}
	}

	if err := e.validateTotality(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) set(role entity.Role, kind entity.LifecycleKind, perms entity.PermissionSet) {
	e.table[pairKey{role: role, kind: kind}] = perms
}

func (e *Engine) validateTotality() error {
	for _, role := range entity.AllRoles {
		for _, kind := range entity.AllLifecycleKinds {
			if _, ok := e.table[pairKey{role: role, kind: kind}]; !ok {
				return fmt.Errorf("policy table missing entry for role=%s lifecycle=%s", role, kind)
			}
		}
	}
	return nil
}

// Lookup returns the permission set for a role and lifecycle state. An
// unmapped pair is a configuration error surfaced to the caller.
func (e *Engine) Lookup(role entity.Role, kind entity.LifecycleKind) (entity.PermissionSet, error) {
	perms, ok := e.table[pairKey{role: role, kind: kind}]
	if !ok {
		return entity.PermissionSet{}, fmt.Errorf("policy table missing entry for role=%s lifecycle=%s", role, kind)
	}
	return perms, nil
}

func superAdminGrant() entity.PermissionSet {
	return entity.PermissionSet{
		ManageUsers:           true,
		ManageSubscriptions:   true,
		ManageFinancialAdmins: true,
		ViewFinancialData:     true,
		ManageFinancialData:   true,
		ManageNotifications:   true,
		ManageEmails:          true,
		ViewProfiles:          true,
		AccessSystemInfo:      true,
		ViewCancelRequests:    true,
		ProcessCancelRequests: true,
		ExportUserData:        true,
	}
}

// financialAdminGrant is view+manage on financial data only. Every
// organizational-management capability stays false.
func financialAdminGrant() entity.PermissionSet {
	return entity.PermissionSet{
		ViewFinancialData:   true,
		ManageFinancialData: true,
	}
}

func corporateAdminGrant() entity.PermissionSet {
	return entity.PermissionSet{
		ManageUsers:         true,
		ManageSubscriptions: true,
		ManageNotifications: true,
		ManageEmails:        true,
		ViewProfiles:        true,
		ExportUserData:      true,
	}
}

func memberGrant() entity.PermissionSet {
	return entity.PermissionSet{
		ViewProfiles: true,
	}
}

func personalGrant() entity.PermissionSet {
	return entity.PermissionSet{
		ViewProfiles: true,
	}
}
