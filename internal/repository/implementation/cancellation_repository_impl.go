package implementation

import (
	"context"
	"encoding/json"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/model"
	"tapcard-be/internal/repository/contract"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type cancelRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewCancelRequestRepository(db *gorm.DB) contract.CancelRequestRepository {
	return &cancelRequestRepositoryImpl{db: db}
}

func (r *cancelRequestRepositoryImpl) Create(ctx context.Context, request *entity.CancelRequest) error {
	return r.db.WithContext(ctx).Create(&model.CancelRequest{
		Id:             request.Id,
		SubscriptionId: request.SubscriptionId,
		UserId:         request.UserId,
		Reason:         request.Reason,
		Status:         string(request.Status),
		AdminNotes:     request.AdminNotes,
		EffectiveDate:  request.EffectiveDate,
		ProcessedBy:    request.ProcessedBy,
		ProcessedAt:    request.ProcessedAt,
	}).Error
}

func (r *cancelRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancelRequest, error) {
	var mc model.CancelRequest
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&mc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&mc), nil
}

func (r *cancelRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancelRequest, error) {
	var mcs []*model.CancelRequest
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mcs).Error; err != nil {
		return nil, err
	}
	var requests []*entity.CancelRequest
	for _, mc := range mcs {
		requests = append(requests, r.mapToEntity(mc))
	}
	return requests, nil
}

// FindAllWithDetails returns requests with preloaded User and Subscription
// relations for the admin listing.
func (r *cancelRequestRepositoryImpl) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CancelRequest, error) {
	var mcs []*model.CancelRequest
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Subscription")
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mcs).Error; err != nil {
		return nil, err
	}
	var requests []*entity.CancelRequest
	for _, mc := range mcs {
		request := r.mapToEntity(mc)
		request.User = entity.User{
			Id:       mc.User.Id,
			Email:    mc.User.Email,
			FullName: mc.User.FullName,
		}
		request.Subscription = entity.Subscription{
			Id:               mc.Subscription.Id,
			Plan:             entity.SubscriptionPlan(mc.Subscription.Plan),
			Status:           entity.SubscriptionStatus(mc.Subscription.Status),
			CurrentPeriodEnd: mc.Subscription.CurrentPeriodEnd,
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *cancelRequestRepositoryImpl) Update(ctx context.Context, request *entity.CancelRequest) error {
	return r.db.WithContext(ctx).Model(&model.CancelRequest{}).
		Where("id = ?", request.Id).
		Updates(map[string]interface{}{
			"reason":         request.Reason,
			"status":         string(request.Status),
			"admin_notes":    request.AdminNotes,
			"effective_date": request.EffectiveDate,
			"processed_by":   request.ProcessedBy,
			"processed_at":   request.ProcessedAt,
		}).Error
}

func (r *cancelRequestRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CancelRequest{}, id).Error
}

func (r *cancelRequestRepositoryImpl) mapToEntity(mc *model.CancelRequest) *entity.CancelRequest {
	return &entity.CancelRequest{
		Id:             mc.Id,
		SubscriptionId: mc.SubscriptionId,
		UserId:         mc.UserId,
		Reason:         mc.Reason,
		Status:         entity.CancelRequestStatus(mc.Status),
		AdminNotes:     mc.AdminNotes,
		EffectiveDate:  mc.EffectiveDate,
		ProcessedBy:    mc.ProcessedBy,
		ProcessedAt:    mc.ProcessedAt,
		CreatedAt:      mc.CreatedAt,
		UpdatedAt:      mc.UpdatedAt,
	}
}

type integrityRepositoryImpl struct {
	db *gorm.DB
}

func NewIntegrityRepository(db *gorm.DB) contract.IntegrityRepository {
	return &integrityRepositoryImpl{db: db}
}

func (r *integrityRepositoryImpl) CreateFlag(ctx context.Context, userId uuid.UUID, kind entity.IntegrityIssueKind, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}
	return r.db.WithContext(ctx).Create(&model.IntegrityFlag{
		UserId:  userId,
		Kind:    string(kind),
		Details: datatypes.JSON(payload),
	}).Error
}

func (r *integrityRepositoryImpl) MarkResolved(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.IntegrityFlag{}).
		Where("id = ?", id).
		Update("resolved", true).Error
}
