package service

import (
	"context"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/logger"
	"tapcard-be/internal/repository/memory"
	"tapcard-be/pkg/entitlement"
	entEvents "tapcard-be/pkg/entitlement/events"
	"tapcard-be/pkg/entitlement/lifecycle"
	"tapcard-be/pkg/entitlement/loader"
	"tapcard-be/pkg/entitlement/membership"
	"tapcard-be/pkg/entitlement/policy"
	"tapcard-be/pkg/entitlement/routing"

	"github.com/google/uuid"
)

// IEntitlementService is the exposed resolver contract. Both operations are
// side-effect free over the Data Store; integrity anomalies detected along
// the way are published for asynchronous cleanup, never applied inline.
type IEntitlementService interface {
	Resolve(ctx context.Context, subjectId uuid.UUID) (*entity.Entitlement, error)
	CheckAccess(ctx context.Context, subjectId uuid.UUID, requestedPath string) (routing.Decision, error)
	// Invalidate drops any cached decision for a subject. Mutating services
	// call it after commit.
	Invalidate(ctx context.Context, subjectId uuid.UUID)
}

type entitlementService struct {
	loader    *loader.Loader
	policy    *policy.Engine
	allowlist *entitlement.Allowlist
	cache     memory.DecisionCache
	publisher entEvents.Publisher
	logger    logger.ILogger
	now       func() time.Time
}

func NewEntitlementService(
	ldr *loader.Loader,
	policyEngine *policy.Engine,
	allowlist *entitlement.Allowlist,
	cache memory.DecisionCache,
	publisher entEvents.Publisher,
	log logger.ILogger,
) IEntitlementService {
	return &entitlementService{
		loader:    ldr,
		policy:    policyEngine,
		allowlist: allowlist,
		cache:     cache,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (s *entitlementService) Resolve(ctx context.Context, subjectId uuid.UUID) (*entity.Entitlement, error) {
	if cached, ok := s.cache.Get(ctx, subjectId); ok {
		return cached, nil
	}

	records, err := s.loader.LoadSubject(ctx, subjectId)
	if err != nil {
		return nil, err
	}

	memResult := membership.Validate(membership.Input{
		User:         records.User,
		AdminTenant:  records.AdminTenant,
		MemberTenant: records.MemberTenant,
		LatestInvite: records.LatestInvite,
		InviteTenant: records.InviteTenant,
	})

	lcResult := lifecycle.Classify(lifecycle.Input{
		User:         records.User,
		OwningTenant: s.boundTenant(records, memResult.Binding),
		Subscription: records.Subscription,
		Now:          s.now(),
	})

	role := entitlement.ResolveRole(records.User, memResult.Binding, lcResult.State, records.FinancialAdmin, s.allowlist)

	perms, err := s.policy.Lookup(role, lcResult.State.Kind)
	if err != nil {
		// A hole in the policy table is a configuration error; fail closed.
		s.logger.Error("ENTITLEMENT", "Policy table lookup failed", map[string]interface{}{
			"role": string(role), "lifecycle": string(lcResult.State.Kind), "error": err.Error(),
		})
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "policy configuration error", err)
	}

	ent := &entity.Entitlement{
		SubjectId:   subjectId,
		Role:        role,
		Lifecycle:   lcResult.State,
		Permissions: perms,
		Binding:     memResult.Binding,
		HomePath:    routing.HomePath(role, lcResult.State),
	}

	s.surfaceIssues(ctx, append(memResult.Issues, lcResult.Issues...))
	s.cache.Set(ctx, ent)
	return ent, nil
}

func (s *entitlementService) CheckAccess(ctx context.Context, subjectId uuid.UUID, requestedPath string) (routing.Decision, error) {
	ent, err := s.Resolve(ctx, subjectId)
	if err != nil {
		return routing.Decision{}, err
	}
	return routing.Decide(ent, requestedPath), nil
}

func (s *entitlementService) Invalidate(ctx context.Context, subjectId uuid.UUID) {
	s.cache.Invalidate(ctx, subjectId)
}

// boundTenant returns the tenant entity matching the validated binding; nil
// for unbound subjects.
func (s *entitlementService) boundTenant(records *loader.SubjectRecords, binding entity.TenantBinding) *entity.Tenant {
	if binding.Kind == entity.BindingNone {
		return nil
	}
	for _, t := range []*entity.Tenant{records.AdminTenant, records.MemberTenant, records.InviteTenant} {
		if t != nil && t.Id == binding.TenantId {
			return t
		}
	}
	return nil
}

func (s *entitlementService) surfaceIssues(ctx context.Context, issues []entity.IntegrityIssue) {
	if len(issues) == 0 {
		return
	}
	for _, issue := range issues {
		s.logger.Warn("ENTITLEMENT", "Integrity issue detected", map[string]interface{}{
			"kind":    string(issue.Kind),
			"user_id": issue.UserId.String(),
			"detail":  issue.Detail,
		})
	}
	s.publisher.PublishIntegrityIssues(ctx, issues)
}
