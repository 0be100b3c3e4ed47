package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Converter converts amounts between currencies using the company
// currency as the cross. Rates come from a RateProvider; the company
// currency implicitly carries a rate of 1.
type Converter struct {
	companyCurrency valueobject.Currency
	rates           RateProvider
}

// NewConverter creates a converter anchored on the company currency
func NewConverter(companyCurrency valueobject.Currency, rates RateProvider) *Converter {
	return &Converter{
		companyCurrency: companyCurrency,
		rates:           rates,
	}
}

// CompanyCurrency returns the currency the converter crosses through
func (c *Converter) CompanyCurrency() valueobject.Currency {
	return c.companyCurrency
}

func (c *Converter) rateAt(ctx context.Context, companyID uuid.UUID, currency valueobject.Currency, at time.Time) (decimal.Decimal, error) {
	if currency == c.companyCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate, err := c.rates.RateAt(ctx, companyID, currency, at)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to resolve rate for %s: %w", currency, err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_RATE",
			fmt.Sprintf("Exchange rate for %s is not positive", currency))
	}
	return rate, nil
}

// Convert converts an amount from one currency to another as of the
// given date. Same-currency conversion is the identity.
func (c *Converter) Convert(
	ctx context.Context,
	companyID uuid.UUID,
	amount decimal.Decimal,
	from, to valueobject.Currency,
	at time.Time,
) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, err := c.rateAt(ctx, companyID, from, at)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toRate, err := c.rateAt(ctx, companyID, to, at)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return amount.Mul(fromRate).Div(toRate), nil
}

// ConvertMoney converts a Money value to the target currency
func (c *Converter) ConvertMoney(
	ctx context.Context,
	companyID uuid.UUID,
	money valueobject.Money,
	to valueobject.Currency,
	at time.Time,
) (valueobject.Money, error) {
	amount, err := c.Convert(ctx, companyID, money.Amount(), money.Currency(), to, at)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoney(amount, to)
}

// ToCompany converts an amount into the company currency
func (c *Converter) ToCompany(
	ctx context.Context,
	companyID uuid.UUID,
	amount decimal.Decimal,
	from valueobject.Currency,
	at time.Time,
) (decimal.Decimal, error) {
	return c.Convert(ctx, companyID, amount, from, c.companyCurrency, at)
}
