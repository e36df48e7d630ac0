package contract

import (
	"context"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	Update(ctx context.Context, tenant *entity.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error)

	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status entity.TenantStatus) error
	UpdateAdmin(ctx context.Context, id uuid.UUID, adminUserId uuid.UUID) error
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *entity.InvitationAudit) error
	// FindLatestForUser returns the most recent accepted invitation. Pending
	// and revoked invitations never rebind a member.
	FindLatestForUser(ctx context.Context, userId uuid.UUID) (*entity.InvitationAudit, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InvitationAudit, error)
}
