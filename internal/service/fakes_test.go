package service

import (
	"context"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/contract"
	"tapcard-be/internal/repository/specification"
	"tapcard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// fakeStore is a shared in-memory data store backing every fake repository.
// Specifications are interpreted structurally: the fakes understand the
// concrete spec types the services actually use.
type fakeStore struct {
	users           map[uuid.UUID]*entity.User
	tenants         map[uuid.UUID]*entity.Tenant
	invitations     []*entity.InvitationAudit
	subscriptions   map[uuid.UUID]*entity.Subscription
	financialAdmins map[uuid.UUID]*entity.FinancialAdminRecord
	cancelRequests  map[uuid.UUID]*entity.CancelRequest
	integrityFlags  []entity.IntegrityIssueKind
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:           make(map[uuid.UUID]*entity.User),
		tenants:         make(map[uuid.UUID]*entity.Tenant),
		subscriptions:   make(map[uuid.UUID]*entity.Subscription),
		financialAdmins: make(map[uuid.UUID]*entity.FinancialAdminRecord),
		cancelRequests:  make(map[uuid.UUID]*entity.CancelRequest),
	}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUnitOfWork) TenantRepository() contract.TenantRepository {
	return &fakeTenantRepo{store: u.store}
}
func (u *fakeUnitOfWork) InvitationRepository() contract.InvitationRepository {
	return &fakeInvitationRepo{store: u.store}
}
func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{store: u.store}
}
func (u *fakeUnitOfWork) FinancialAdminRepository() contract.FinancialAdminRepository {
	return &fakeFinancialAdminRepo{store: u.store}
}
func (u *fakeUnitOfWork) CancelRequestRepository() contract.CancelRequestRepository {
	return &fakeCancelRequestRepo{store: u.store}
}
func (u *fakeUnitOfWork) IntegrityRepository() contract.IntegrityRepository {
	return &fakeIntegrityRepo{store: u.store}
}

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

// --- users ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if id, ok := specID(specs); ok {
		if u, found := r.store.users[id]; found {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, s := range specs {
		if f, ok := s.(specification.FilterBy); ok && f.Field == "tenant_id" {
			tenantId := f.Value.(uuid.UUID)
			for _, u := range r.store.users {
				if u.TenantId != nil && *u.TenantId == tenantId {
					copied := *u
					out = append(out, &copied)
				}
			}
			return out, nil
		}
	}
	for _, u := range r.store.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}

func (r *fakeUserRepo) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status entity.UserSubscriptionStatus) error {
	if u, ok := r.store.users[id]; ok {
		u.SubscriptionStatus = status
	}
	return nil
}

func (r *fakeUserRepo) DetachTenant(ctx context.Context, id uuid.UUID) error {
	if u, ok := r.store.users[id]; ok {
		u.TenantId = nil
		u.CorporateRoleHint = nil
	}
	return nil
}

func (r *fakeUserRepo) AttachTenant(ctx context.Context, id uuid.UUID, tenantId uuid.UUID, hint entity.CorporateRoleHint) error {
	if u, ok := r.store.users[id]; ok {
		u.TenantId = &tenantId
		u.CorporateRoleHint = &hint
	}
	return nil
}

func (r *fakeUserRepo) DetachAllMembers(ctx context.Context, tenantId uuid.UUID) error {
	for _, u := range r.store.users {
		if u.TenantId != nil && *u.TenantId == tenantId {
			u.TenantId = nil
			u.CorporateRoleHint = nil
		}
	}
	return nil
}

func (r *fakeUserRepo) FindTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.users {
		if u.SubscriptionStatus != entity.UserSubscriptionTrialing || u.TrialEndsAt == nil {
			continue
		}
		if u.TrialEndsAt.After(from) && u.TrialEndsAt.Before(to) {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindGraceExpired(ctx context.Context, cutoff time.Time) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.users {
		if u.SubscriptionStatus != entity.UserSubscriptionTrialing || u.TrialEndsAt == nil {
			continue
		}
		if u.TrialEndsAt.Before(cutoff) {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

// --- tenants ---

type fakeTenantRepo struct {
	store *fakeStore
}

func (r *fakeTenantRepo) Create(ctx context.Context, tenant *entity.Tenant) error {
	r.store.tenants[tenant.Id] = tenant
	return nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error {
	r.store.tenants[tenant.Id] = tenant
	return nil
}

func (r *fakeTenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.tenants, id)
	return nil
}

func (r *fakeTenantRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error) {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if t, found := r.store.tenants[spec.ID]; found {
				copied := *t
				return &copied, nil
			}
			return nil, nil
		case specification.ByAdminUserID:
			for _, t := range r.store.tenants {
				if t.AdminUserId == spec.UserID {
					copied := *t
					return &copied, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error) {
	var out []*entity.Tenant
	for _, t := range r.store.tenants {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTenantRepo) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status entity.TenantStatus) error {
	if t, ok := r.store.tenants[id]; ok {
		t.AccountStatus = status
	}
	return nil
}

func (r *fakeTenantRepo) UpdateAdmin(ctx context.Context, id uuid.UUID, adminUserId uuid.UUID) error {
	if t, ok := r.store.tenants[id]; ok {
		t.AdminUserId = adminUserId
	}
	return nil
}

// --- invitations ---

type fakeInvitationRepo struct {
	store *fakeStore
}

func (r *fakeInvitationRepo) Create(ctx context.Context, invitation *entity.InvitationAudit) error {
	r.store.invitations = append(r.store.invitations, invitation)
	return nil
}

func (r *fakeInvitationRepo) FindLatestForUser(ctx context.Context, userId uuid.UUID) (*entity.InvitationAudit, error) {
	var latest *entity.InvitationAudit
	for _, inv := range r.store.invitations {
		if inv.UserId != userId || inv.Status != entity.InvitationAccepted {
			continue
		}
		if latest == nil || inv.CreatedAt.After(latest.CreatedAt) {
			latest = inv
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeInvitationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InvitationAudit, error) {
	return r.store.invitations, nil
}

// --- subscriptions ---

type fakeSubscriptionRepo struct {
	store *fakeStore
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	r.store.subscriptions[subscription.Id] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, subscription *entity.Subscription) error {
	r.store.subscriptions[subscription.Id] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.subscriptions, id)
	return nil
}

func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	if id, ok := specID(specs); ok {
		if s, found := r.store.subscriptions[id]; found {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, s := range r.store.subscriptions {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindLatestForOwner(ctx context.Context, ownerId uuid.UUID, ownerType entity.OwnerType) (*entity.Subscription, error) {
	var latest *entity.Subscription
	for _, s := range r.store.subscriptions {
		if s.OwnerId != ownerId || s.OwnerType != ownerType {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	if s, ok := r.store.subscriptions[id]; ok {
		s.Status = status
	}
	return nil
}

// --- financial admins ---

type fakeFinancialAdminRepo struct {
	store *fakeStore
}

func (r *fakeFinancialAdminRepo) Create(ctx context.Context, record *entity.FinancialAdminRecord) error {
	r.store.financialAdmins[record.UserId] = record
	return nil
}

func (r *fakeFinancialAdminRepo) Update(ctx context.Context, record *entity.FinancialAdminRecord) error {
	r.store.financialAdmins[record.UserId] = record
	return nil
}

func (r *fakeFinancialAdminRepo) FindActiveForUser(ctx context.Context, userId uuid.UUID) (*entity.FinancialAdminRecord, error) {
	if rec, ok := r.store.financialAdmins[userId]; ok && rec.IsActive {
		copied := *rec
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeFinancialAdminRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FinancialAdminRecord, error) {
	var out []*entity.FinancialAdminRecord
	for _, rec := range r.store.financialAdmins {
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeFinancialAdminRepo) Deactivate(ctx context.Context, userId uuid.UUID) error {
	if rec, ok := r.store.financialAdmins[userId]; ok {
		rec.IsActive = false
	}
	return nil
}

// --- cancel requests ---

type fakeCancelRequestRepo struct {
	store *fakeStore
}

func (r *fakeCancelRequestRepo) Create(ctx context.Context, request *entity.CancelRequest) error {
	r.store.cancelRequests[request.Id] = request
	return nil
}

func (r *fakeCancelRequestRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancelRequest, error) {
	if id, ok := specID(specs); ok {
		if req, found := r.store.cancelRequests[id]; found {
			copied := *req
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCancelRequestRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancelRequest, error) {
	var out []*entity.CancelRequest
	for _, req := range r.store.cancelRequests {
		copied := *req
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCancelRequestRepo) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CancelRequest, error) {
	requests, _ := r.FindAll(ctx, specs...)
	for _, req := range requests {
		if u, ok := r.store.users[req.UserId]; ok {
			req.User = *u
		}
		if s, ok := r.store.subscriptions[req.SubscriptionId]; ok {
			req.Subscription = *s
		}
	}
	return requests, nil
}

func (r *fakeCancelRequestRepo) Update(ctx context.Context, request *entity.CancelRequest) error {
	r.store.cancelRequests[request.Id] = request
	return nil
}

func (r *fakeCancelRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.cancelRequests, id)
	return nil
}

// --- integrity flags ---

type fakeIntegrityRepo struct {
	store *fakeStore
}

func (r *fakeIntegrityRepo) CreateFlag(ctx context.Context, userId uuid.UUID, kind entity.IntegrityIssueKind, details map[string]interface{}) error {
	r.store.integrityFlags = append(r.store.integrityFlags, kind)
	return nil
}

func (r *fakeIntegrityRepo) MarkResolved(ctx context.Context, id uuid.UUID) error {
	return nil
}

// --- collaborators ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// recordingPublisher captures published event types for assertions.
type recordingPublisher struct {
	cancelProcessed   int
	tenantReactivated int
	adminTransferred  int
	integrityIssues   []entity.IntegrityIssue
	trialReminders    []uuid.UUID
	trialReminderDays []int
	graceExpirations  []uuid.UUID
}

func (p *recordingPublisher) PublishCancelRequestProcessed(ctx context.Context, requestId, subscriptionId, userId uuid.UUID, email, plan, status string, effectiveDate time.Time) {
	p.cancelProcessed++
}

func (p *recordingPublisher) PublishTenantReactivated(ctx context.Context, tenantId, actorId uuid.UUID, tenantName, adminEmail string) {
	p.tenantReactivated++
}

func (p *recordingPublisher) PublishAdminTransferred(ctx context.Context, tenantId, fromId, toId uuid.UUID) {
	p.adminTransferred++
}

func (p *recordingPublisher) PublishIntegrityIssues(ctx context.Context, issues []entity.IntegrityIssue) {
	p.integrityIssues = append(p.integrityIssues, issues...)
}

func (p *recordingPublisher) PublishTrialEndingSoon(ctx context.Context, userId uuid.UUID, email string, daysRemaining int) {
	p.trialReminders = append(p.trialReminders, userId)
	p.trialReminderDays = append(p.trialReminderDays, daysRemaining)
}

func (p *recordingPublisher) PublishGraceExpired(ctx context.Context, userId uuid.UUID, email string) {
	p.graceExpirations = append(p.graceExpirations, userId)
}

// nopBilling never fails; failure paths are not rolled back anyway.
type nopBilling struct{}

func (nopBilling) NotifyCancellation(ctx context.Context, providerRef string) error { return nil }
func (nopBilling) NotifyReactivation(ctx context.Context, providerRef string) error { return nil }
