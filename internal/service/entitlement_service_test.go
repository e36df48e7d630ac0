package service

import (
	"context"
	"testing"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/memory"
	"tapcard-be/pkg/entitlement"
	"tapcard-be/pkg/entitlement/loader"
	"tapcard-be/pkg/entitlement/policy"
	"tapcard-be/pkg/entitlement/routing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntitlementService(t *testing.T, store *fakeStore, superAdminEmails ...string) (IEntitlementService, *recordingPublisher) {
	t.Helper()
	engine, err := policy.New()
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	svc := NewEntitlementService(
		loader.New(&fakeFactory{store: store}),
		engine,
		entitlement.NewAllowlist(nil, superAdminEmails),
		memory.NewDecisionCache(),
		publisher,
		nopLogger{},
	)
	return svc, publisher
}

func TestResolveUnknownSubject(t *testing.T) {
	svc, _ := newTestEntitlementService(t, newFakeStore())

	_, err := svc.Resolve(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Equal(t, entity.ErrKindNotFound, entity.KindOf(err))
}

func TestResolveFreshTrialUser(t *testing.T) {
	store := newFakeStore()
	trialEnd := time.Now().AddDate(0, 0, 10)
	user := &entity.User{
		Id:                 uuid.New(),
		Email:              "new@personal.example",
		SubscriptionStatus: entity.UserSubscriptionTrialing,
		TrialEndsAt:        &trialEnd,
	}
	store.users[user.Id] = user

	svc, _ := newTestEntitlementService(t, store)

	ent, err := svc.Resolve(context.Background(), user.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.RolePersonal, ent.Role)
	assert.Equal(t, entity.LifecycleTrialing, ent.Lifecycle.Kind)
	assert.Equal(t, 10, ent.Lifecycle.DaysRemaining)
	assert.True(t, ent.Permissions.ViewProfiles)
	assert.False(t, ent.Permissions.ManageUsers)
	assert.Equal(t, routing.HomePersonal, ent.HomePath)
	assert.Equal(t, entity.BindingNone, ent.Binding.Kind)
}

func TestResolveAllowlistedSuperAdmin(t *testing.T) {
	store := newFakeStore()
	user := &entity.User{
		Id:                 uuid.New(),
		Email:              "Root@TapCard.io",
		SubscriptionStatus: entity.UserSubscriptionActive,
	}
	store.users[user.Id] = user

	svc, _ := newTestEntitlementService(t, store, "root@tapcard.io")

	ent, err := svc.Resolve(context.Background(), user.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleSuperAdmin, ent.Role)
	assert.True(t, ent.Permissions.ProcessCancelRequests)
	assert.Equal(t, routing.HomeSuperAdmin, ent.HomePath)
}

func TestResolveCorporateAdminWithActiveSubscription(t *testing.T) {
	store := newFakeStore()
	admin := &entity.User{Id: uuid.New(), Email: "owner@acme.example"}
	tenant := &entity.Tenant{Id: uuid.New(), AdminUserId: admin.Id, AccountStatus: entity.TenantStatusActive}
	sub := &entity.Subscription{
		Id:        uuid.New(),
		OwnerId:   tenant.Id,
		OwnerType: entity.OwnerTypeTenant,
		Status:    entity.SubscriptionStatusActive,
	}
	store.users[admin.Id] = admin
	store.tenants[tenant.Id] = tenant
	store.subscriptions[sub.Id] = sub

	svc, _ := newTestEntitlementService(t, store)

	ent, err := svc.Resolve(context.Background(), admin.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleCorporateAdmin, ent.Role)
	assert.Equal(t, entity.LifecycleActive, ent.Lifecycle.Kind)
	assert.Equal(t, entity.BindingAdmin, ent.Binding.Kind)
	assert.Equal(t, tenant.Id, ent.Binding.TenantId)
	assert.True(t, ent.Permissions.ManageUsers)
	assert.Equal(t, routing.HomeCorporateAdmin, ent.HomePath)
}

// Suspended tenant: the admin keeps the role but holds no capabilities, and
// its home collapses to the reactivation surface.
func TestResolveSuspendedTenantAdmin(t *testing.T) {
	store := newFakeStore()
	admin := &entity.User{Id: uuid.New(), Email: "owner@frozen.example"}
	tenant := &entity.Tenant{Id: uuid.New(), AdminUserId: admin.Id, AccountStatus: entity.TenantStatusSuspended}
	store.users[admin.Id] = admin
	store.tenants[tenant.Id] = tenant

	svc, _ := newTestEntitlementService(t, store)

	ent, err := svc.Resolve(context.Background(), admin.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleCorporateAdmin, ent.Role)
	assert.Equal(t, entity.LifecycleSuspended, ent.Lifecycle.Kind)
	assert.Equal(t, entity.PermissionSet{}, ent.Permissions)
	assert.Equal(t, routing.ReactivationPath, ent.HomePath)
}

func TestResolveSuspendedTenantMemberFallsToPersonal(t *testing.T) {
	store := newFakeStore()
	tenant := &entity.Tenant{Id: uuid.New(), AdminUserId: uuid.New(), AccountStatus: entity.TenantStatusSuspended}
	hint := entity.CorporateHintMember
	member := &entity.User{
		Id:                uuid.New(),
		Email:             "member@frozen.example",
		TenantId:          &tenant.Id,
		CorporateRoleHint: &hint,
	}
	store.users[member.Id] = member
	store.tenants[tenant.Id] = tenant

	svc, _ := newTestEntitlementService(t, store)

	ent, err := svc.Resolve(context.Background(), member.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.RolePersonal, ent.Role)
	assert.Equal(t, entity.LifecycleSuspended, ent.Lifecycle.Kind)
	assert.Equal(t, entity.PermissionSet{}, ent.Permissions)
}

// A revoked invitation issued after an accepted one must not shadow it when
// an orphaned member hint is rebound from the audit trail.
func TestResolveOrphanRepairSkipsRevokedInvitations(t *testing.T) {
	store := newFakeStore()
	tenant := &entity.Tenant{Id: uuid.New(), AdminUserId: uuid.New(), AccountStatus: entity.TenantStatusActive}
	other := &entity.Tenant{Id: uuid.New(), AdminUserId: uuid.New(), AccountStatus: entity.TenantStatusActive}
	hint := entity.CorporateHintMember
	orphan := &entity.User{
		Id:                uuid.New(),
		Email:             "orphan@acme.example",
		CorporateRoleHint: &hint,
	}
	store.users[orphan.Id] = orphan
	store.tenants[tenant.Id] = tenant
	store.tenants[other.Id] = other
	store.invitations = append(store.invitations,
		&entity.InvitationAudit{
			Id: uuid.New(), UserId: orphan.Id, TenantId: tenant.Id,
			Status: entity.InvitationAccepted, CreatedAt: time.Now().Add(-48 * time.Hour),
		},
		&entity.InvitationAudit{
			Id: uuid.New(), UserId: orphan.Id, TenantId: other.Id,
			Status: entity.InvitationRevoked, CreatedAt: time.Now().Add(-time.Hour),
		},
	)

	svc, publisher := newTestEntitlementService(t, store)

	ent, err := svc.Resolve(context.Background(), orphan.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.BindingMember, ent.Binding.Kind)
	assert.Equal(t, tenant.Id, ent.Binding.TenantId)

	kinds := make([]entity.IntegrityIssueKind, 0, len(publisher.integrityIssues))
	for _, i := range publisher.integrityIssues {
		kinds = append(kinds, i.Kind)
	}
	assert.Contains(t, kinds, entity.IssueRepairedFromInvite)
}

func TestResolveDualMembershipPublishesIssuesWithoutWriting(t *testing.T) {
	store := newFakeStore()
	adminTenant := &entity.Tenant{Id: uuid.New(), AccountStatus: entity.TenantStatusActive}
	memberTenant := &entity.Tenant{Id: uuid.New(), AdminUserId: uuid.New(), AccountStatus: entity.TenantStatusActive}
	hint := entity.CorporateHintAdmin
	user := &entity.User{
		Id:                uuid.New(),
		Email:             "dual@acme.example",
		TenantId:          &memberTenant.Id,
		CorporateRoleHint: &hint,
	}
	adminTenant.AdminUserId = user.Id
	sub := &entity.Subscription{
		Id:        uuid.New(),
		OwnerId:   adminTenant.Id,
		OwnerType: entity.OwnerTypeTenant,
		Status:    entity.SubscriptionStatusActive,
	}
	store.users[user.Id] = user
	store.tenants[adminTenant.Id] = adminTenant
	store.tenants[memberTenant.Id] = memberTenant
	store.subscriptions[sub.Id] = sub

	svc, publisher := newTestEntitlementService(t, store)

	ent, err := svc.Resolve(context.Background(), user.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleCorporateAdmin, ent.Role)
	assert.Equal(t, adminTenant.Id, ent.Binding.TenantId)

	kinds := make([]entity.IntegrityIssueKind, 0, len(publisher.integrityIssues))
	for _, i := range publisher.integrityIssues {
		kinds = append(kinds, i.Kind)
	}
	assert.Contains(t, kinds, entity.IssueDualMembership)
	assert.Contains(t, kinds, entity.IssueDiscardedMemberPtr)

	// The read path only signals; the stale pointer survives until cleanup.
	assert.NotNil(t, store.users[user.Id].TenantId)
}

func TestResolveCachesUntilInvalidated(t *testing.T) {
	store := newFakeStore()
	user := &entity.User{Id: uuid.New(), Email: "cached@personal.example", SubscriptionStatus: entity.UserSubscriptionActive}
	sub := &entity.Subscription{Id: uuid.New(), OwnerId: user.Id, OwnerType: entity.OwnerTypeUser, Status: entity.SubscriptionStatusActive}
	store.users[user.Id] = user
	store.subscriptions[sub.Id] = sub

	svc, _ := newTestEntitlementService(t, store)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.LifecycleActive, first.Lifecycle.Kind)

	// Mutate underlying state; the cached decision still serves.
	sub.Status = entity.SubscriptionStatusPastDue
	cached, err := svc.Resolve(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.LifecycleActive, cached.Lifecycle.Kind)

	svc.Invalidate(ctx, user.Id)
	fresh, err := svc.Resolve(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.LifecyclePastDue, fresh.Lifecycle.Kind)
}

func TestCheckAccessAppliesRoutingRules(t *testing.T) {
	store := newFakeStore()
	user := &entity.User{Id: uuid.New(), Email: "root@tapcard.io", SubscriptionStatus: entity.UserSubscriptionActive}
	store.users[user.Id] = user

	svc, _ := newTestEntitlementService(t, store, "root@tapcard.io")
	ctx := context.Background()

	d, err := svc.CheckAccess(ctx, user.Id, "/admin/users")
	require.NoError(t, err)
	assert.Equal(t, routing.DecisionAllow, d.Kind)
}
