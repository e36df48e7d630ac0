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
	actionApprove = "approve"
	actionReject  = "reject"
)

// ICancellationService owns the cancel-request decision workflow. Both
// operations are idempotent by request id + action: the first call applies
// the effect, every later call observes the terminal status and replays the
// stored outcome.
type ICancellationService interface {
	ListCancelRequests(ctx context.Context, status string, page, limit int) ([]*dto.CancelRequestListResponse, error)
	ApproveCancelRequest(ctx context.Context, requestId, actorId uuid.UUID, adminNotes string) (*dto.ProcessCancelRequestResponse, error)
	RejectCancelRequest(ctx context.Context, requestId, actorId uuid.UUID, reason string) (*dto.ProcessCancelRequestResponse, error)
}

type cancellationService struct {
	uowFactory  unitofwork.RepositoryFactory
	entitlement IEntitlementService
	guard       *idempotency.Guard
	billing     billing.Gateway
	publisher   entEvents.Publisher
	logger      logger.ILogger
}

func NewCancellationService(
	uowFactory unitofwork.RepositoryFactory,
	entitlementService IEntitlementService,
	guard *idempotency.Guard,
	billingGateway billing.Gateway,
	publisher entEvents.Publisher,
	log logger.ILogger,
) ICancellationService {
	return &cancellationService{
		uowFactory:  uowFactory,
		entitlement: entitlementService,
		guard:       guard,
		billing:     billingGateway,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *cancellationService) ListCancelRequests(ctx context.Context, status string, page, limit int) ([]*dto.CancelRequestListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}

	requests, err := uow.CancelRequestRepository().FindAllWithDetails(ctx, specs...)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "list cancel requests", err)
	}

	var res []*dto.CancelRequestListResponse
	for _, req := range requests {
		res = append(res, &dto.CancelRequestListResponse{
			Id:            req.Id.String(),
			Status:        string(req.Status),
			Reason:        req.Reason,
			EffectiveDate: req.EffectiveDate,
			CreatedAt:     req.CreatedAt,
			User: dto.CancelRequestUserInfo{
				Id:       req.User.Id.String(),
				Email:    req.User.Email,
				FullName: req.User.FullName,
			},
			Subscription: dto.CancelRequestSubInfo{
				Id:               req.Subscription.Id.String(),
				Plan:             string(req.Subscription.Plan),
				CurrentPeriodEnd: req.Subscription.CurrentPeriodEnd,
			},
		})
	}
	return res, nil
}

func (s *cancellationService) ApproveCancelRequest(ctx context.Context, requestId, actorId uuid.UUID, adminNotes string) (*dto.ProcessCancelRequestResponse, error) {
	return s.process(ctx, requestId, actorId, actionApprove, adminNotes, "")
}

func (s *cancellationService) RejectCancelRequest(ctx context.Context, requestId, actorId uuid.UUID, reason string) (*dto.ProcessCancelRequestResponse, error) {
	return s.process(ctx, requestId, actorId, actionReject, "", reason)
}

func (s *cancellationService) process(ctx context.Context, requestId, actorId uuid.UUID, action, adminNotes, reason string) (*dto.ProcessCancelRequestResponse, error) {
	if err := s.authorizeActor(ctx, actorId); err != nil {
		return nil, err
	}

	key := idempotency.Key(requestId, action)
	if outcome, found := s.guard.Check(key); found {
		return replayedResponse(requestId, outcome), nil
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

	// Row lock serializes concurrent decisions on the same request: exactly
	// one transaction sees status == pending.
	request, err := uow.CancelRequestRepository().FindOne(ctx,
		specification.ByID{ID: requestId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load cancel request", err)
	}
	if request == nil {
		return nil, entity.NewDomainError(entity.ErrKindNotFound, "cancel request not found")
	}
	if request.IsTerminal() {
		// The loser of the race lands here; surface the stored state without
		// reapplying the effect.
		processedAt := time.Now()
		if request.ProcessedAt != nil {
			processedAt = *request.ProcessedAt
		}
		s.guard.Record(key, string(request.Status), processedAt)
		return nil, entity.NewDomainError(entity.ErrKindAlreadyProcessed, "cancel request already "+string(request.Status))
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: request.SubscriptionId})
	if err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "load subscription", err)
	}

	now := time.Now()
	request.ProcessedAt = &now
	request.ProcessedBy = &actorId

	if action == actionApprove {
		request.Status = entity.CancelRequestApproved
		request.AdminNotes = adminNotes
		if sub != nil {
			// The subscription stays active until CurrentPeriodEnd; the flag
			// alone marks the pending cancellation. The provider webhook and
			// the sweep handle the period-end lapse.
			sub.CancelAtPeriodEnd = true
			if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
				return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "update subscription", err)
			}
		}
	} else {
		request.Status = entity.CancelRequestRejected
		request.AdminNotes = reason
	}

	if err := uow.CancelRequestRepository().Update(ctx, request); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "update cancel request", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, entity.WrapDomainError(entity.ErrKindUpstreamUnavailable, "commit", err)
	}
	committed = true

	s.guard.Record(key, string(request.Status), now)
	s.entitlement.Invalidate(ctx, request.UserId)

	// Write-through to the billing provider after commit: the local state is
	// already authoritative, failures are logged and surfaced via the event
	// stream, never rolled back.
	if action == actionApprove && sub != nil && sub.ProviderRef != nil {
		if err := s.billing.NotifyCancellation(ctx, *sub.ProviderRef); err != nil {
			s.logger.Warn("CANCELLATION", "Billing provider notification failed", map[string]interface{}{
				"request_id": requestId.String(), "error": err.Error(),
			})
		}
	}

	plan := ""
	email := ""
	if sub != nil {
		plan = string(sub.Plan)
	}
	if user, uerr := uow.UserRepository().FindOne(ctx, specification.ByID{ID: request.UserId}); uerr == nil && user != nil {
		email = user.Email
	}
	s.publisher.PublishCancelRequestProcessed(ctx, requestId, request.SubscriptionId, request.UserId, email, plan, string(request.Status), request.EffectiveDate)

	return &dto.ProcessCancelRequestResponse{
		RequestId:     requestId.String(),
		Status:        string(request.Status),
		EffectiveDate: request.EffectiveDate,
		ProcessedAt:   now,
	}, nil
}

func (s *cancellationService) authorizeActor(ctx context.Context, actorId uuid.UUID) error {
	ent, err := s.entitlement.Resolve(ctx, actorId)
	if err != nil {
		return err
	}
	if !ent.Permissions.ProcessCancelRequests {
		return entity.NewDomainError(entity.ErrKindForbidden, "actor cannot process cancel requests")
	}
	return nil
}

func replayedResponse(requestId uuid.UUID, outcome *idempotency.Outcome) *dto.ProcessCancelRequestResponse {
	return &dto.ProcessCancelRequestResponse{
		RequestId:   requestId.String(),
		Status:      outcome.Status,
		ProcessedAt: outcome.ProcessedAt,
		Replayed:    true,
	}
}
