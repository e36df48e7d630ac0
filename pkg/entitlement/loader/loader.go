package loader

import (
	"context"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/specification"
	"tapcard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// SubjectRecords is everything the resolver needs about one subject, loaded
// in a single pass. Absent records are nil; only a missing User is an error.
type SubjectRecords struct {
	User           *entity.User
	AdminTenant    *entity.Tenant
	MemberTenant   *entity.Tenant
	Subscription   *entity.Subscription
	FinancialAdmin *entity.FinancialAdminRecord
	LatestInvite   *entity.InvitationAudit
	InviteTenant   *entity.Tenant
}

// Loader reads raw records for the resolver. No business logic lives here.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func New(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// LoadSubject gathers the subject's records. Reads run outside any
// transaction against the shared pool.
func (l *Loader) LoadSubject(ctx context.Context, subjectId uuid.UUID) (*SubjectRecords, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: subjectId})
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load user", err)
	}
	if user == nil {
		return nil, entity.NewDomainError(entity.ErrKindNotFound, "subject not found")
	}

	records := &SubjectRecords{User: user}

	records.AdminTenant, err = uow.TenantRepository().FindOne(ctx, specification.ByAdminUserID{UserID: subjectId})
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load admin tenant", err)
	}

	if user.TenantId != nil {
		records.MemberTenant, err = uow.TenantRepository().FindOne(ctx, specification.ByID{ID: *user.TenantId})
		if err != nil {
			return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load member tenant", err)
		}
	}

	records.Subscription, err = l.loadSubscription(ctx, uow, records)
	if err != nil {
		return nil, err
	}

	records.FinancialAdmin, err = uow.FinancialAdminRepository().FindActiveForUser(ctx, subjectId)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load financial admin record", err)
	}

	records.LatestInvite, err = uow.InvitationRepository().FindLatestForUser(ctx, subjectId)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load invitation audit", err)
	}
	if records.LatestInvite != nil {
		records.InviteTenant, err = uow.TenantRepository().FindOne(ctx, specification.ByID{ID: records.LatestInvite.TenantId})
		if err != nil {
			return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load invitation tenant", err)
		}
	}

	return records, nil
}

// loadSubscription prefers the tenant-owned subscription when the subject has
// any tenant relationship, falling back to the personal one.
func (l *Loader) loadSubscription(ctx context.Context, uow unitofwork.UnitOfWork, records *SubjectRecords) (*entity.Subscription, error) {
	subRepo := uow.SubscriptionRepository()

	tenant := records.AdminTenant
	if tenant == nil {
		tenant = records.MemberTenant
	}
	if tenant != nil {
		sub, err := subRepo.FindLatestForOwner(ctx, tenant.Id, entity.OwnerTypeTenant)
		if err != nil {
			return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load tenant subscription", err)
		}
		if sub != nil {
			return sub, nil
		}
	}

	sub, err := subRepo.FindLatestForOwner(ctx, records.User.Id, entity.OwnerTypeUser)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load personal subscription", err)
	}
	return sub, nil
}
