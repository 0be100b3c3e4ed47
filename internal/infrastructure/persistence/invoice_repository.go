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

// GormInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByPartner finds posted, not-fully-paid invoices for the given
// partners and move types, ordered by invoice date then number.
func (r *GormInvoiceRepository) FindOpenByPartner(ctx context.Context, query ledger.OpenInvoiceQuery) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	q := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("company_id = ?", query.CompanyID).
		Where("partner_id IN ?", query.PartnerIDs).
		Where("move_type IN ?", query.MoveTypes).
		Where("state = ?", ledger.InvoiceStatePosted).
		Where("payment_state IN ?", ledger.OpenPaymentStates()).
		Where("amount_residual <> 0").
		Order("invoice_date ASC, number ASC")

	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	if err := q.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// Save persists an invoice with optimistic locking on existing rows
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *ledger.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("id = ?", inv.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SaveAll persists a batch of invoices
func (r *GormInvoiceRepository) SaveAll(ctx context.Context, invoices []*ledger.Invoice) error {
	for _, inv := range invoices {
		if err := r.Save(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}
