package implementation

import (
	"context"
	"time"

	"tapcard-be/internal/entity"
	"tapcard-be/internal/model"
	"tapcard-be/internal/repository/contract"
	"tapcard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(user)).Error
}

func (r *userRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.Id).
		Updates(map[string]interface{}{
			"email":               user.Email,
			"full_name":           user.FullName,
			"subscription_status": string(user.SubscriptionStatus),
			"trial_ends_at":       user.TrialEndsAt,
			"corporate_role_hint": hintToString(user.CorporateRoleHint),
			"permanent_plan_type": planTypeToString(user.PermanentPlanType),
			"tenant_id":           user.TenantId,
		}).Error
}

func (r *userRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var mu model.User
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&mu).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&mu), nil
}

func (r *userRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var mus []*model.User
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mus).Error; err != nil {
		return nil, err
	}
	var users []*entity.User
	for _, mu := range mus {
		users = append(users, r.mapToEntity(mu))
	}
	return users, nil
}

func (r *userRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.User{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepositoryImpl) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status entity.UserSubscriptionStatus) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("subscription_status", string(status)).Error
}

func (r *userRepositoryImpl) DetachTenant(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tenant_id":           nil,
			"corporate_role_hint": nil,
		}).Error
}

func (r *userRepositoryImpl) AttachTenant(ctx context.Context, id uuid.UUID, tenantId uuid.UUID, hint entity.CorporateRoleHint) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tenant_id":           tenantId,
			"corporate_role_hint": string(hint),
		}).Error
}

func (r *userRepositoryImpl) DetachAllMembers(ctx context.Context, tenantId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("tenant_id = ?", tenantId).
		Updates(map[string]interface{}{
			"tenant_id":           nil,
			"corporate_role_hint": nil,
		}).Error
}

func (r *userRepositoryImpl) FindTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*entity.User, error) {
	var mus []*model.User
	err := r.db.WithContext(ctx).
		Where("trial_ends_at BETWEEN ? AND ?", from, to).
		Where("subscription_status = ?", string(entity.UserSubscriptionTrialing)).
		Find(&mus).Error
	if err != nil {
		return nil, err
	}
	var users []*entity.User
	for _, mu := range mus {
		users = append(users, r.mapToEntity(mu))
	}
	return users, nil
}

func (r *userRepositoryImpl) FindGraceExpired(ctx context.Context, cutoff time.Time) ([]*entity.User, error) {
	var mus []*model.User
	err := r.db.WithContext(ctx).
		Where("trial_ends_at < ?", cutoff).
		Where("subscription_status IN ?", []string{
			string(entity.UserSubscriptionTrialing),
			string(entity.UserSubscriptionNone),
		}).
		Find(&mus).Error
	if err != nil {
		return nil, err
	}
	var users []*entity.User
	for _, mu := range mus {
		users = append(users, r.mapToEntity(mu))
	}
	return users, nil
}

func (r *userRepositoryImpl) mapToModel(u *entity.User) *model.User {
	return &model.User{
		Id:                 u.Id,
		Email:              u.Email,
		FullName:           u.FullName,
		SubscriptionStatus: string(u.SubscriptionStatus),
		TrialEndsAt:        u.TrialEndsAt,
		CorporateRoleHint:  hintToString(u.CorporateRoleHint),
		PermanentPlanType:  planTypeToString(u.PermanentPlanType),
		TenantId:           u.TenantId,
	}
}

func (r *userRepositoryImpl) mapToEntity(mu *model.User) *entity.User {
	return &entity.User{
		Id:                 mu.Id,
		Email:              mu.Email,
		FullName:           mu.FullName,
		SubscriptionStatus: entity.UserSubscriptionStatus(mu.SubscriptionStatus),
		TrialEndsAt:        mu.TrialEndsAt,
		CorporateRoleHint:  stringToHint(mu.CorporateRoleHint),
		PermanentPlanType:  stringToPlanType(mu.PermanentPlanType),
		TenantId:           mu.TenantId,
		CreatedAt:          mu.CreatedAt,
		UpdatedAt:          mu.UpdatedAt,
	}
}

func hintToString(h *entity.CorporateRoleHint) *string {
	if h == nil {
		return nil
	}
	s := string(*h)
	return &s
}

func stringToHint(s *string) *entity.CorporateRoleHint {
	if s == nil {
		return nil
	}
	h := entity.CorporateRoleHint(*s)
	return &h
}

func planTypeToString(p *entity.PermanentPlanType) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func stringToPlanType(s *string) *entity.PermanentPlanType {
	if s == nil {
		return nil
	}
	p := entity.PermanentPlanType(*s)
	return &p
}
