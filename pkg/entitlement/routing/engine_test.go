package routing

import (
	"testing"

	"tapcard-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapcard-be/pkg/entitlement/policy"
)

func entFor(t *testing.T, role entity.Role, kind entity.LifecycleKind) *entity.Entitlement {
	t.Helper()
	engine, err := policy.New()
	require.NoError(t, err)
	perms, err := engine.Lookup(role, kind)
	require.NoError(t, err)

	state := entity.LifecycleState{Kind: kind}
	return &entity.Entitlement{
		SubjectId:   uuid.New(),
		Role:        role,
		Lifecycle:   state,
		Permissions: perms,
		HomePath:    HomePath(role, state),
	}
}

func TestHomePathPerRole(t *testing.T) {
	active := entity.LifecycleState{Kind: entity.LifecycleActive}

	assert.Equal(t, HomeSuperAdmin, HomePath(entity.RoleSuperAdmin, active))
	assert.Equal(t, HomeFinancialAdmin, HomePath(entity.RoleFinancialAdmin, active))
	assert.Equal(t, HomeCorporateAdmin, HomePath(entity.RolePermanentAdmin, active))
	assert.Equal(t, HomeCorporateAdmin, HomePath(entity.RoleCorporateAdmin, active))
	assert.Equal(t, HomeCorporateMember, HomePath(entity.RoleCorporateMember, active))
	assert.Equal(t, HomePersonal, HomePath(entity.RolePersonal, active))
}

func TestHomePathSuspendedCorporateLandsOnReactivation(t *testing.T) {
	suspended := entity.LifecycleState{Kind: entity.LifecycleSuspended}

	assert.Equal(t, ReactivationPath, HomePath(entity.RoleCorporateAdmin, suspended))
	assert.Equal(t, ReactivationPath, HomePath(entity.RoleCorporateMember, suspended))
	assert.Equal(t, HomePersonal, HomePath(entity.RolePersonal, suspended))
}

func TestDecideSuperAdminReachesAdminSurfaces(t *testing.T) {
	ent := entFor(t, entity.RoleSuperAdmin, entity.LifecycleActive)

	for _, path := range []string{"/admin", "/admin/users", "/admin/cancellations", "/admin/export"} {
		assert.Equal(t, DecisionAllow, Decide(ent, path).Kind, "path %s", path)
	}
}

func TestDecideFinancialAdminConfinedToFinance(t *testing.T) {
	ent := entFor(t, entity.RoleFinancialAdmin, entity.LifecycleActive)

	assert.Equal(t, DecisionAllow, Decide(ent, "/admin/finance").Kind)
	assert.Equal(t, DecisionAllow, Decide(ent, "/admin/finance/reports").Kind)

	d := Decide(ent, "/admin/users")
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, HomeFinancialAdmin, d.Path)
}

func TestDecideMemberCannotReachAdminOnlySurfaces(t *testing.T) {
	ent := entFor(t, entity.RoleCorporateMember, entity.LifecycleActive)

	assert.Equal(t, DecisionAllow, Decide(ent, "/corporate/profile").Kind)

	d := Decide(ent, "/corporate/users")
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, HomeCorporateMember, d.Path)
}

// A suspended tenant's admin is funneled to the reactivation surface from
// anywhere, and the surface itself never redirects to itself.
func TestDecideSuspendedAdminFunnel(t *testing.T) {
	ent := entFor(t, entity.RoleCorporateAdmin, entity.LifecycleSuspended)

	for _, path := range []string{"/corporate", "/corporate/users", "/dashboard", "/admin"} {
		d := Decide(ent, path)
		assert.Equal(t, DecisionRedirect, d.Kind, "path %s", path)
		assert.Equal(t, ReactivationPath, d.Path, "path %s", path)
	}

	assert.Equal(t, DecisionAllow, Decide(ent, ReactivationPath).Kind)
	assert.Equal(t, DecisionAllow, Decide(ent, "/corporate/settings/billing").Kind)
}

func TestDecidePersonalUserRedirectedFromCorporate(t *testing.T) {
	ent := entFor(t, entity.RolePersonal, entity.LifecycleActive)

	assert.Equal(t, DecisionAllow, Decide(ent, "/dashboard").Kind)
	assert.Equal(t, DecisionAllow, Decide(ent, "/profiles/abc").Kind)

	d := Decide(ent, "/corporate/users")
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, HomePersonal, d.Path)
}

func TestDecidePastDuePersonalNeverLoops(t *testing.T) {
	ent := entFor(t, entity.RolePersonal, entity.LifecyclePastDue)

	// ViewProfiles is gone past due, so owned paths redirect home. The home
	// itself has no capability requirement, so the subject always lands.
	d := Decide(ent, "/profiles/abc")
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, HomePersonal, d.Path)

	assert.Equal(t, DecisionAllow, Decide(ent, "/dashboard").Kind)
}

func TestDecideUnownedPathIsAllowed(t *testing.T) {
	ent := entFor(t, entity.RolePersonal, entity.LifecycleActive)

	assert.Equal(t, DecisionAllow, Decide(ent, "/about").Kind)
	assert.Equal(t, DecisionAllow, Decide(ent, "/").Kind)
}

func TestDecideNormalizesTrailingSlash(t *testing.T) {
	ent := entFor(t, entity.RoleCorporateMember, entity.LifecycleActive)

	assert.Equal(t, DecisionAllow, Decide(ent, "/corporate/profile/").Kind)
}

func TestDecideSelfRedirectCollapsesToAllow(t *testing.T) {
	ent := entFor(t, entity.RoleCorporateMember, entity.LifecycleActive)

	// The member home requires ViewProfiles, which members hold, so this is
	// a plain allow; the invariant matters for degraded states.
	assert.Equal(t, DecisionAllow, Decide(ent, HomeCorporateMember).Kind)

	lapsed := entFor(t, entity.RolePersonal, entity.LifecyclePastDue)
	assert.Equal(t, DecisionAllow, Decide(lapsed, HomePersonal).Kind)
}
