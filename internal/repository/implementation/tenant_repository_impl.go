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

type tenantRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) contract.TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

func (r *tenantRepositoryImpl) Create(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Create(&model.Tenant{
		Id:            tenant.Id,
		Name:          tenant.Name,
		AccountStatus: string(tenant.AccountStatus),
		AdminUserId:   tenant.AdminUserId,
		MaxUsers:      tenant.MaxUsers,
	}).Error
}

func (r *tenantRepositoryImpl) Update(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("id = ?", tenant.Id).
		Updates(map[string]interface{}{
			"name":           tenant.Name,
			"account_status": string(tenant.AccountStatus),
			"admin_user_id":  tenant.AdminUserId,
			"max_users":      tenant.MaxUsers,
		}).Error
}

func (r *tenantRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tenant{}, id).Error
}

func (r *tenantRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error) {
	var mt model.Tenant
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&mt).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&mt), nil
}

func (r *tenantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error) {
	var mts []*model.Tenant
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mts).Error; err != nil {
		return nil, err
	}
	var tenants []*entity.Tenant
	for _, mt := range mts {
		tenants = append(tenants, r.mapToEntity(mt))
	}
	return tenants, nil
}

func (r *tenantRepositoryImpl) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status entity.TenantStatus) error {
	return r.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("id = ?", id).
		Update("account_status", string(status)).Error
}

func (r *tenantRepositoryImpl) UpdateAdmin(ctx context.Context, id uuid.UUID, adminUserId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("id = ?", id).
		Update("admin_user_id", adminUserId).Error
}

func (r *tenantRepositoryImpl) mapToEntity(mt *model.Tenant) *entity.Tenant {
	return &entity.Tenant{
		Id:            mt.Id,
		Name:          mt.Name,
		AccountStatus: entity.TenantStatus(mt.AccountStatus),
		AdminUserId:   mt.AdminUserId,
		MaxUsers:      mt.MaxUsers,
		CreatedAt:     mt.CreatedAt,
		UpdatedAt:     mt.UpdatedAt,
	}
}

type invitationRepositoryImpl struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) contract.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

func (r *invitationRepositoryImpl) Create(ctx context.Context, invitation *entity.InvitationAudit) error {
	return r.db.WithContext(ctx).Create(&model.InvitationAudit{
		Id:        invitation.Id,
		UserId:    invitation.UserId,
		TenantId:  invitation.TenantId,
		Email:     invitation.Email,
		Status:    string(invitation.Status),
		InvitedBy: invitation.InvitedBy,
	}).Error
}

func (r *invitationRepositoryImpl) FindLatestForUser(ctx context.Context, userId uuid.UUID) (*entity.InvitationAudit, error) {
	var mi model.InvitationAudit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Where("status = ?", string(entity.InvitationAccepted)).
		Order("created_at DESC").
		First(&mi).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&mi), nil
}

func (r *invitationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InvitationAudit, error) {
	var mis []*model.InvitationAudit
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&mis).Error; err != nil {
		return nil, err
	}
	var invitations []*entity.InvitationAudit
	for _, mi := range mis {
		invitations = append(invitations, r.mapToEntity(mi))
	}
	return invitations, nil
}

func (r *invitationRepositoryImpl) mapToEntity(mi *model.InvitationAudit) *entity.InvitationAudit {
	return &entity.InvitationAudit{
		Id:        mi.Id,
		UserId:    mi.UserId,
		TenantId:  mi.TenantId,
		Email:     mi.Email,
		Status:    entity.InvitationStatus(mi.Status),
		InvitedBy: mi.InvitedBy,
		CreatedAt: mi.CreatedAt,
	}
}
