package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/batchpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCurrencyRateRepository implements currency.RateRepository using GORM
type GormCurrencyRateRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRateRepository creates a new GormCurrencyRateRepository
func NewGormCurrencyRateRepository(db *gorm.DB) *GormCurrencyRateRepository {
	return &GormCurrencyRateRepository{db: db}
}

// FindLatest returns the most recent rate for the currency with
// ValidFrom on or before the given date
func (r *GormCurrencyRateRepository) FindLatest(ctx context.Context, companyID uuid.UUID, ccy valueobject.Currency, at time.Time) (*currency.CurrencyRate, error) {
	var model models.CurrencyRateModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND currency = ? AND valid_from <= ?", companyID, ccy, at).
		Order("valid_from DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists an exchange rate entry
func (r *GormCurrencyRateRepository) Save(ctx context.Context, rate *currency.CurrencyRate) error {
	model := models.CurrencyRateModelFromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// RateAt implements currency.RateProvider directly on top of the rate
// table, so the repository can back a Converter without an adapter.
func (r *GormCurrencyRateRepository) RateAt(ctx context.Context, companyID uuid.UUID, ccy valueobject.Currency, at time.Time) (decimal.Decimal, error) {
	rate, err := r.FindLatest(ctx, companyID, ccy, at)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return rate.Rate, nil
}
