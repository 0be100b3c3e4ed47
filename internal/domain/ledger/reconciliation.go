package ledger

import (
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reconciliation records a partial match between a debit ledger line and
// a credit ledger line. Amount is the matched value in company currency
// (always positive); AmountCurrency carries the matched value in the
// shared foreign currency when both lines carry one.
type Reconciliation struct {
	shared.BaseEntity
	CompanyID      uuid.UUID            `json:"company_id"`
	DebitLineID    uuid.UUID            `json:"debit_line_id"`
	CreditLineID   uuid.UUID            `json:"credit_line_id"`
	DebitMoveID    uuid.UUID            `json:"debit_move_id"`
	CreditMoveID   uuid.UUID            `json:"credit_move_id"`
	Amount         decimal.Decimal      `json:"amount"`
	AmountCurrency decimal.Decimal      `json:"amount_currency"`
	Currency       valueobject.Currency `json:"currency"`
}

// NewReconciliation matches two ledger lines. The debit line must carry a
// positive balance and the credit line a negative one.
func NewReconciliation(
	companyID uuid.UUID,
	debitLine, creditLine *MoveLine,
	debitMoveID, creditMoveID uuid.UUID,
	amount decimal.Decimal,
	amountCurrency decimal.Decimal,
	currency valueobject.Currency,
) (*Reconciliation, error) {
	if debitLine == nil || creditLine == nil {
		return nil, shared.NewDomainError("NO_SETTLEMENT_LINE", "Both ledger lines are required for reconciliation")
	}
	if !debitLine.Balance.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RECONCILIATION", "Debit line must carry a positive balance")
	}
	if !creditLine.Balance.LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RECONCILIATION", "Credit line must carry a negative balance")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Reconciled amount must be positive")
	}

	return &Reconciliation{
		BaseEntity:     shared.NewBaseEntity(),
		CompanyID:      companyID,
		DebitLineID:    debitLine.ID,
		CreditLineID:   creditLine.ID,
		DebitMoveID:    debitMoveID,
		CreditMoveID:   creditMoveID,
		Amount:         amount,
		AmountCurrency: amountCurrency,
		Currency:       currency,
	}, nil
}
