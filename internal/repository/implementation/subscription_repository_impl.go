package implementation

import (
	"context"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/model"
	"tapcard-be/internal/repository/contract"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db}
}

func (r *subscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(subscription)).Error
}

func (r *subscriptionRepositoryImpl) Update(ctx context.Context, subscription *entity.Subscription) error {
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ?", subscription.Id).
		Updates(map[string]interface{}{
			"plan":                 string(subscription.Plan),
			"status":               string(subscription.Status),
			"cancel_at_period_end": subscription.CancelAtPeriodEnd,
			"current_period_end":   subscription.CurrentPeriodEnd,
			"provider_ref":         subscription.ProviderRef,
		}).Error
}

func (r *subscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Subscription{}, id).Error
}

func (r *subscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var ms model.Subscription
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&ms).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&ms), nil
}

func (r *subscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var mss []*model.Subscription
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mss).Error; err != nil {
		return nil, err
	}
	var subscriptions []*entity.Subscription
	for _, ms := range mss {
		subscriptions = append(subscriptions, r.mapToEntity(ms))
	}
	return subscriptions, nil
}

func (r *subscriptionRepositoryImpl) FindLatestForOwner(ctx context.Context, ownerId uuid.UUID, ownerType entity.OwnerType) (*entity.Subscription, error) {
	var ms model.Subscription
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND owner_type = ?", ownerId, string(ownerType)).
		Order("created_at DESC").
		First(&ms).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&ms), nil
}

func (r *subscriptionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *subscriptionRepositoryImpl) mapToModel(s *entity.Subscription) *model.Subscription {
	return &model.Subscription{
		Id:                s.Id,
		OwnerId:           s.OwnerId,
		OwnerType:         string(s.OwnerType),
		Plan:              string(s.Plan),
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		CurrentPeriodEnd:  s.CurrentPeriodEnd,
		ProviderRef:       s.ProviderRef,
	}
}

func (r *subscriptionRepositoryImpl) mapToEntity(ms *model.Subscription) *entity.Subscription {
	return &entity.Subscription{
		Id:                ms.Id,
		OwnerId:           ms.OwnerId,
		OwnerType:         entity.OwnerType(ms.OwnerType),
		Plan:              entity.SubscriptionPlan(ms.Plan),
		Status:            entity.SubscriptionStatus(ms.Status),
		CancelAtPeriodEnd: ms.CancelAtPeriodEnd,
		CurrentPeriodEnd:  ms.CurrentPeriodEnd,
		ProviderRef:       ms.ProviderRef,
		CreatedAt:         ms.CreatedAt,
		UpdatedAt:         ms.UpdatedAt,
	}
}

type financialAdminRepositoryImpl struct {
	db *gorm.DB
}

func NewFinancialAdminRepository(db *gorm.DB) contract.FinancialAdminRepository {
	return &financialAdminRepositoryImpl{db: db}
}

func (r *financialAdminRepositoryImpl) Create(ctx context.Context, record *entity.FinancialAdminRecord) error {
	return r.db.WithContext(ctx).Create(&model.FinancialAdminRecord{
		Id:        record.Id,
		UserId:    record.UserId,
		IsActive:  record.IsActive,
		GrantedBy: record.GrantedBy,
	}).Error
}

func (r *financialAdminRepositoryImpl) Update(ctx context.Context, record *entity.FinancialAdminRecord) error {
	return r.db.WithContext(ctx).Model(&model.FinancialAdminRecord{}).
		Where("id = ?", record.Id).
		Updates(map[string]interface{}{
			"is_active": record.IsActive,
		}).Error
}

func (r *financialAdminRepositoryImpl) FindActiveForUser(ctx context.Context, userId uuid.UUID) (*entity.FinancialAdminRecord, error) {
	var mf model.FinancialAdminRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userId, true).
		First(&mf).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&mf), nil
}

func (r *financialAdminRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FinancialAdminRecord, error) {
	var mfs []*model.FinancialAdminRecord
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mfs).Error; err != nil {
		return nil, err
	}
	var records []*entity.FinancialAdminRecord
	for _, mf := range mfs {
		records = append(records, r.mapToEntity(mf))
	}
	return records, nil
}

func (r *financialAdminRepositoryImpl) Deactivate(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.FinancialAdminRecord{}).
		Where("user_id = ?", userId).
		Update("is_active", false).Error
}

func (r *financialAdminRepositoryImpl) mapToEntity(mf *model.FinancialAdminRecord) *entity.FinancialAdminRecord {
	return &entity.FinancialAdminRecord{
		Id:        mf.Id,
		UserId:    mf.UserId,
		IsActive:  mf.IsActive,
		GrantedBy: mf.GrantedBy,
		CreatedAt: mf.CreatedAt,
		UpdatedAt: mf.UpdatedAt,
	}
}
