package contract

import (
	"context"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CancelRequestRepository defines operations for subscription cancellation
// requests. FindOne honors LockForUpdate so approval races serialize on the
// request row.
type CancelRequestRepository interface {
	Create(ctx context.Context, request *entity.CancelRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancelRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancelRequest, error)
	FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CancelRequest, error)
	Update(ctx context.Context, request *entity.CancelRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IntegrityRepository records read-path anomalies for later inspection.
type IntegrityRepository interface {
	CreateFlag(ctx context.Context, userId uuid.UUID, kind entity.IntegrityIssueKind, details map[string]interface{}) error
	MarkResolved(ctx context.Context, id uuid.UUID) error
}
