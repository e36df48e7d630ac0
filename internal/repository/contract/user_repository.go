package contract

import (
	"context"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Lifecycle mutations
	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status entity.UserSubscriptionStatus) error
	DetachTenant(ctx context.Context, id uuid.UUID) error
	AttachTenant(ctx context.Context, id uuid.UUID, tenantId uuid.UUID, hint entity.CorporateRoleHint) error
	DetachAllMembers(ctx context.Context, tenantId uuid.UUID) error

	// Sweep queries
	FindTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*entity.User, error)
	FindGraceExpired(ctx context.Context, cutoff time.Time) ([]*entity.User, error)
}
