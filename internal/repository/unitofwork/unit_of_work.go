package unitofwork

import (
	"context"

	"tapcard-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin opens a
// transaction; until then repositories run against the shared pool. Mutating
// services always Begin so multi-row changes commit or roll back as one.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TenantRepository() contract.TenantRepository
	InvitationRepository() contract.InvitationRepository
	SubscriptionRepository() contract.SubscriptionRepository
	FinancialAdminRepository() contract.FinancialAdminRepository
	CancelRequestRepository() contract.CancelRequestRepository
	IntegrityRepository() contract.IntegrityRepository
}
