package contract

import (
	"context"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// FindLatestForOwner returns the most recently created subscription for a
	// polymorphic owner, or nil when none exists.
	FindLatestForOwner(ctx context.Context, ownerId uuid.UUID, ownerType entity.OwnerType) (*entity.Subscription, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error
}

type FinancialAdminRepository interface {
	Create(ctx context.Context, record *entity.FinancialAdminRecord) error
	Update(ctx context.Context, record *entity.FinancialAdminRecord) error
	FindActiveForUser(ctx context.Context, userId uuid.UUID) (*entity.FinancialAdminRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FinancialAdminRecord, error)
	Deactivate(ctx context.Context, userId uuid.UUID) error
}
