package allocation

import (
	"time"

	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRequest captures the inputs of one batch payment: which
// partner to settle, on which journal, in which currency, as of which
// date. Lines are rebuilt from scratch whenever any of the triggering
// inputs change; nothing here is persisted beyond the request.
type AllocationRequest struct {
	CompanyID              uuid.UUID            `json:"company_id"`
	PartnerID              uuid.UUID            `json:"partner_id"`
	Role                   partner.Role         `json:"role"`
	Currency               valueobject.Currency `json:"currency"`
	PaymentDate            time.Time            `json:"payment_date"`
	JournalID              uuid.UUID            `json:"journal_id"`
	MethodID               uuid.UUID            `json:"method_id"` // zero value means auto-select
	Memo                   string               `json:"memo"`
	IncludeCommercialGroup bool                 `json:"include_commercial_group"`
	DefaultAmountPolicy    string               `json:"default_amount_policy"` // empty means the configured default
}

// IsComplete reports whether every input the loader needs is present.
// Incomplete requests yield an empty line set, not an error.
func (r AllocationRequest) IsComplete() bool {
	return r.CompanyID != uuid.Nil &&
		r.PartnerID != uuid.Nil &&
		(r.Role == partner.RoleCustomer || r.Role == partner.RoleVendor) &&
		r.Currency.IsValid() &&
		!r.PaymentDate.IsZero()
}

// Direction derives the payment direction from the partner role:
// customers pay us, we pay vendors.
func (r AllocationRequest) Direction() ledger.PaymentDirection {
	if r.Role == partner.RoleCustomer {
		return ledger.DirectionInbound
	}
	return ledger.DirectionOutbound
}

// EligibleMoveTypes returns the invoice move types the role can settle
func (r AllocationRequest) EligibleMoveTypes() []ledger.MoveType {
	if r.Role == partner.RoleCustomer {
		return ledger.CustomerMoveTypes()
	}
	return ledger.VendorMoveTypes()
}

// AllocationLine is one open invoice proposed for settlement. Residual
// is the invoice's outstanding balance in its own currency;
// ResidualConverted is the same value converted to the request's payment
// currency at the payment date. The conversion is a snapshot and does not
// track later date changes.
type AllocationLine struct {
	InvoiceID         uuid.UUID            `json:"invoice_id"`
	InvoiceNumber     string               `json:"invoice_number"`
	InvoiceDate       time.Time            `json:"invoice_date"`
	MoveType          ledger.MoveType      `json:"move_type"`
	InvoiceCurrency   valueobject.Currency `json:"invoice_currency"`
	Residual          decimal.Decimal      `json:"residual"`
	ResidualConverted decimal.Decimal      `json:"residual_converted"`
	AmountToPay       decimal.Decimal      `json:"amount_to_pay"`
}

// Validate checks the line's amount against its converted residual
func (l AllocationLine) Validate() error {
	if l.AmountToPay.IsNegative() {
		return shared.NewDomainError(ErrCodeNegativeAmount,
			"Amount to pay cannot be negative on invoice "+l.InvoiceNumber)
	}
	if l.AmountToPay.Sub(l.ResidualConverted).GreaterThan(ledger.SettlementTolerance) {
		return shared.NewDomainError(ErrCodeOverAllocation,
			"Amount to pay exceeds residual on invoice "+l.InvoiceNumber)
	}
	return nil
}

// Error codes raised by allocation validation and settlement
const (
	ErrCodeNothingToPay     = "NOTHING_TO_PAY"
	ErrCodeNegativeAmount   = "NEGATIVE_AMOUNT"
	ErrCodeOverAllocation   = "OVER_ALLOCATION"
	ErrCodeNoPaymentMethod  = "NO_PAYMENT_METHOD"
	ErrCodeNoSettlementLine = "NO_SETTLEMENT_LINE"
)
