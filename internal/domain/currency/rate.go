package currency

import (
	"context"
	"time"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyRate is the exchange rate of one currency against the company
// currency on a given date: one unit of Currency equals Rate units of the
// company currency.
type CurrencyRate struct {
	shared.BaseEntity
	CompanyID uuid.UUID            `json:"company_id"`
	Currency  valueobject.Currency `json:"currency"`
	Rate      decimal.Decimal      `json:"rate"`
	ValidFrom time.Time            `json:"valid_from"`
}

// NewCurrencyRate creates a new exchange rate entry
func NewCurrencyRate(companyID uuid.UUID, currency valueobject.Currency, rate decimal.Decimal, validFrom time.Time) (*CurrencyRate, error) {
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not valid")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	return &CurrencyRate{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		Currency:   currency,
		Rate:       rate,
		ValidFrom:  validFrom,
	}, nil
}

// RateProvider resolves the exchange rate of a currency against the
// company currency as of a given date. The company currency itself always
// resolves to 1.
type RateProvider interface {
	RateAt(ctx context.Context, companyID uuid.UUID, currency valueobject.Currency, at time.Time) (decimal.Decimal, error)
}

// RateRepository is the persistence contract for exchange rates
type RateRepository interface {
	// FindLatest returns the most recent rate for the currency with
	// ValidFrom on or before the given date.
	FindLatest(ctx context.Context, companyID uuid.UUID, currency valueobject.Currency, at time.Time) (*CurrencyRate, error)
	Save(ctx context.Context, rate *CurrencyRate) error
}
