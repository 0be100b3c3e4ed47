package persistence

import (
	"context"
	"errors"

	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalRepository implements ledger.JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByID finds a journal by its ID
func (r *GormJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds the active journals of a company
func (r *GormJournalRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]ledger.Journal, error) {
	var journalModels []models.JournalModel
	if err := r.db.WithContext(ctx).Model(&models.JournalModel{}).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("code ASC").
		Find(&journalModels).Error; err != nil {
		return nil, err
	}
	journals := make([]ledger.Journal, len(journalModels))
	for i, model := range journalModels {
		journals[i] = *model.ToDomain()
	}
	return journals, nil
}

// Save persists a journal
func (r *GormJournalRepository) Save(ctx context.Context, j *ledger.Journal) error {
	model := models.JournalModelFromDomain(j)
	return r.db.WithContext(ctx).Save(model).Error
}
