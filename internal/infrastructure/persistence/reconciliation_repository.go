package persistence

import (
	"context"

	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReconciliationRepository implements ledger.ReconciliationRepository using GORM
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// FindByMoveID finds all reconciliations touching a move, on either side
func (r *GormReconciliationRepository) FindByMoveID(ctx context.Context, moveID uuid.UUID) ([]ledger.Reconciliation, error) {
	var recModels []models.ReconciliationModel
	if err := r.db.WithContext(ctx).Model(&models.ReconciliationModel{}).
		Where("debit_move_id = ? OR credit_move_id = ?", moveID, moveID).
		Order("created_at ASC").
		Find(&recModels).Error; err != nil {
		return nil, err
	}
	recs := make([]ledger.Reconciliation, len(recModels))
	for i, model := range recModels {
		recs[i] = *model.ToDomain()
	}
	return recs, nil
}

// SaveAll persists a batch of reconciliations
func (r *GormReconciliationRepository) SaveAll(ctx context.Context, recs []*ledger.Reconciliation) error {
	if len(recs) == 0 {
		return nil
	}
	recModels := make([]*models.ReconciliationModel, len(recs))
	for i, rec := range recs {
		recModels[i] = models.ReconciliationModelFromDomain(rec)
	}
	return r.db.WithContext(ctx).Create(recModels).Error
}
