package service

import (
	"context"
	"time"

	"tapcard-be/internal/dto"
	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/billing"
	"tapcard-be/internal/pkg/logger"
	"tapcard-be/internal/repository/specification"
	"tapcard-be/internal/repository/unitofwork"
	entEvents "tapcard-be/pkg/entitlement/events"
	"tapcard-be/pkg/entitlement/idempotency"

	"github.com/google/uuid"
)

const (
	actionReactivate    = "reactivate"
	actionTransferAdmin = "transfer_admin"
)

// ITenantService owns corporate account mutations: reactivation after a
// suspension, admin handover, and teardown. Every mutation runs in one
// transaction and invalidates the affected subjects' cached entitlements.
type ITenantService interface {
	ReactivateTenant(ctx context.Context, tenantId, actorId uuid.UUID) (*dto.TenantOperationResponse, error)
	TransferAdmin(ctx context.Context, tenantId, actorId, fromUserId, toUserId uuid.UUID) (*dto.TenantOperationResponse, error)
	DeleteTenant(ctx context.Context, tenantId, actorId uuid.UUID) error
}

type tenantService struct {
	uowFactory  unitofwork.RepositoryFactory
	entitlement IEntitlementService
	guard       *idempotency.Guard
	billing     billing.Gateway
	publisher   entEvents.Publisher
	logger      logger.ILogger
}

func NewTenantService(
	uowFactory unitofwork.RepositoryFactory,
	entitlementService IEntitlementService,
	guard *idempotency.Guard,
	billingGateway billing.Gateway,
	publisher entEvents.Publisher,
	log logger.ILogger,
) ITenantService {
	return &tenantService{
		uowFactory:  uowFactory,
		entitlement: entitlementService,
		guard:       guard,
		billing:     billingGateway,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *tenantService) ReactivateTenant(ctx context.Context, tenantId, actorId uuid.UUID) (*dto.TenantOperationResponse, error) {
	key := idempotency.Key(tenantId, actionReactivate)
	if outcome, found := s.guard.Check(key); found {
		return &dto.TenantOperationResponse{TenantId: tenantId.String(), Status: outcome.Status, Replayed: true}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	tenant, err := uow.TenantRepository().FindOne(ctx,
		specification.ByID{ID: tenantId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load tenant", err)
	}
	if tenant == nil {
		return nil, entity.NewDomainError(entity.ErrKindNotFound, "tenant not found")
	}

	// The suspended tenant's own admin keeps this one ability, so the check
	// is binding-based rather than capability-based.
	if err := s.authorizeTenantAction(ctx, tenant, actorId); err != nil {
		return nil, err
	}

	if !tenant.IsSuspended() {
		s.guard.Record(key, string(tenant.AccountStatus), time.Now())
		return nil, entity.NewDomainError(entity.ErrKindAlreadyProcessed, "tenant is not suspended")
	}

	if err := uow.TenantRepository().UpdateAccountStatus(ctx, tenantId, entity.TenantStatusActive); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "update tenant status", err)
	}

	sub, err := uow.SubscriptionRepository().FindLatestForOwner(ctx, tenantId, entity.OwnerTypeTenant)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load tenant subscription", err)
	}
	if sub != nil && sub.Status == entity.SubscriptionStatusPastDue {
		if err := uow.SubscriptionRepository().UpdateStatus(ctx, sub.Id, entity.SubscriptionStatusActive); err != nil {
			return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "update subscription status", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "commit", err)
	}
	committed = true

	now := time.Now()
	s.guard.Record(key, string(entity.TenantStatusActive), now)
	s.invalidateTenantSubjects(ctx, uow, tenant)

	if sub != nil && sub.ProviderRef != nil {
		if err := s.billing.NotifyReactivation(ctx, *sub.ProviderRef); err != nil {
			s.logger.Warn("TENANT", "Billing reactivation check failed", map[string]interface{}{
				"tenant_id": tenantId.String(), "error": err.Error(),
			})
		}
	}

	adminEmail := ""
	if admin, aerr := uow.UserRepository().FindOne(ctx, specification.ByID{ID: tenant.AdminUserId}); aerr == nil && admin != nil {
		adminEmail = admin.Email
	}
	s.publisher.PublishTenantReactivated(ctx, tenantId, actorId, tenant.Name, adminEmail)

	return &dto.TenantOperationResponse{TenantId: tenantId.String(), Status: string(entity.TenantStatusActive)}, nil
}

// TransferAdmin moves ownership from one user to another. The previous
// admin stays in the tenant as a member so the account is never left
// without a reachable operator, and the tenant always has exactly one
// admin pointer throughout.
func (s *tenantService) TransferAdmin(ctx context.Context, tenantId, actorId, fromUserId, toUserId uuid.UUID) (*dto.TenantOperationResponse, error) {
	key := idempotency.Key(tenantId, actionTransferAdmin+":"+toUserId.String())
	if outcome, found := s.guard.Check(key); found {
		return &dto.TenantOperationResponse{TenantId: tenantId.String(), Status: outcome.Status, Replayed: true}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	tenant, err := uow.TenantRepository().FindOne(ctx,
		specification.ByID{ID: tenantId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load tenant", err)
	}
	if tenant == nil {
		return nil, entity.NewDomainError(entity.ErrKindNotFound, "tenant not found")
	}

	if err := s.authorizeTenantAction(ctx, tenant, actorId); err != nil {
		return nil, err
	}

	if tenant.AdminUserId == toUserId {
		s.guard.Record(key, "transferred", time.Now())
		return nil, entity.NewDomainError(entity.ErrKindAlreadyProcessed, "user is already the tenant admin")
	}
	if tenant.AdminUserId != fromUserId {
		return nil, entity.NewDomainError(entity.ErrKindValidation, "from_user is not the current admin")
	}

	newAdmin, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: toUserId})
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load new admin", err)
	}
	if newAdmin == nil {
		return nil, entity.NewDomainError(entity.ErrKindNotFound, "new admin user not found")
	}
	if newAdmin.TenantId != nil && *newAdmin.TenantId != tenantId {
		return nil, entity.NewDomainError(entity.ErrKindValidation, "new admin belongs to another tenant")
	}

	// Flip the admin pointer first, then normalize both user rows: the new
	// admin drops its member pointer, the old admin gains one.
	if err := uow.TenantRepository().UpdateAdmin(ctx, tenantId, toUserId); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "update tenant admin", err)
	}
	if err := uow.UserRepository().DetachTenant(ctx, toUserId); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "detach new admin member pointer", err)
	}
	hint := entity.CorporateHintAdmin
	newAdmin.TenantId = nil
	newAdmin.CorporateRoleHint = &hint
	if err := uow.UserRepository().Update(ctx, newAdmin); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "update new admin hint", err)
	}
	if err := uow.UserRepository().AttachTenant(ctx, fromUserId, tenantId, entity.CorporateHintMember); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "demote previous admin", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "commit", err)
	}
	committed = true

	s.guard.Record(key, "transferred", time.Now())
	s.entitlement.Invalidate(ctx, fromUserId)
	s.entitlement.Invalidate(ctx, toUserId)
	s.publisher.PublishAdminTransferred(ctx, tenantId, fromUserId, toUserId)

	return &dto.TenantOperationResponse{TenantId: tenantId.String(), Status: "transferred"}, nil
}

// DeleteTenant tears down a corporate account. Members are detached before
// the tenant row goes away so no user is left pointing at a missing tenant.
func (s *tenantService) DeleteTenant(ctx context.Context, tenantId, actorId uuid.UUID) error {
	ent, err := s.entitlement.Resolve(ctx, actorId)
	if err != nil {
		return err
	}
	if ent.Role != entity.RoleSuperAdmin {
		return entity.NewDomainError(entity.ErrKindForbidden, "only platform admins can delete tenants")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	tenant, err := uow.TenantRepository().FindOne(ctx,
		specification.ByID{ID: tenantId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load tenant", err)
	}
	if tenant == nil {
		return entity.NewDomainError(entity.ErrKindNotFound, "tenant not found")
	}

	members, err := uow.UserRepository().FindAll(ctx, specification.FilterBy{Field: "tenant_id", Value: tenantId})
	if err != nil {
		return entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "list tenant members", err)
	}

	if err := uow.UserRepository().DetachAllMembers(ctx, tenantId); err != nil {
		return entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "detach members", err)
	}
	if err := uow.TenantRepository().Delete(ctx, tenantId); err != nil {
		return entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "delete tenant", err)
	}

	if err := uow.Commit(); err != nil {
		return entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "commit", err)
	}
	committed = true

	s.entitlement.Invalidate(ctx, tenant.AdminUserId)
	for _, m := range members {
		s.entitlement.Invalidate(ctx, m.Id)
	}
	s.logger.Info("TENANT", "Tenant deleted", map[string]interface{}{
		"tenant_id": tenantId.String(), "members_detached": len(members),
	})
	return nil
}

// authorizeTenantAction admits the tenant's own admin or any actor holding
// the manage_subscriptions capability.
func (s *tenantService) authorizeTenantAction(ctx context.Context, tenant *entity.Tenant, actorId uuid.UUID) error {
	if tenant.AdminUserId == actorId {
		return nil
	}
	ent, err := s.entitlement.Resolve(ctx, actorId)
	if err != nil {
		return err
	}
	if !ent.Permissions.ManageSubscriptions {
		return entity.NewDomainError(entity.ErrKindForbidden, "actor cannot manage this tenant")
	}
	return nil
}

func (s *tenantService) invalidateTenantSubjects(ctx context.Context, uow unitofwork.UnitOfWork, tenant *entity.Tenant) {
	s.entitlement.Invalidate(ctx, tenant.AdminUserId)
	members, err := uow.UserRepository().FindAll(ctx, specification.FilterBy{Field: "tenant_id", Value: tenant.Id})
	if err != nil {
		s.logger.Warn("TENANT", "Failed to enumerate members for cache invalidation", map[string]interface{}{
			"tenant_id": tenant.Id.String(), "error": err.Error(),
		})
		return
	}
	for _, m := range members {
		s.entitlement.Invalidate(ctx, m.Id)
	}
}
