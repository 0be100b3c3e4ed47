package persistence

import (
	"context"
	"errors"

	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnerRepository implements partner.Repository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a partner by its code within a company
func (r *GormPartnerRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", companyID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds partners for a company with optional filtering
func (r *GormPartnerRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter partner.Filter) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("company_id = ?", companyID)

	if filter.Role != nil {
		query = query.Where("role IN ?", []partner.Role{*filter.Role, partner.RoleBoth})
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR display_name ILIKE ?", pattern, pattern)
	}

	if err := query.Order("display_name ASC").Find(&partnerModels).Error; err != nil {
		return nil, err
	}
	partners := make([]partner.Partner, len(partnerModels))
	for i, model := range partnerModels {
		partners[i] = *model.ToDomain()
	}
	return partners, nil
}

// FindCommercialGroup returns the IDs of every partner sharing the given
// partner's commercial partner, including the partner itself.
func (r *GormPartnerRepository) FindCommercialGroup(ctx context.Context, companyID, partnerID uuid.UUID) ([]uuid.UUID, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, partnerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("company_id = ? AND commercial_partner_id = ?", companyID, model.CommercialPartnerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save persists a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}
