package ledger

import (
	"fmt"
	"time"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementTolerance is the rounding tolerance applied when comparing
// settled amounts against residuals.
var SettlementTolerance = decimal.RequireFromString("0.000001")

// MoveType represents the kind of invoice move
type MoveType string

const (
	MoveTypeCustomerInvoice    MoveType = "CUSTOMER_INVOICE"
	MoveTypeCustomerCreditNote MoveType = "CUSTOMER_CREDIT_NOTE"
	MoveTypeVendorInvoice      MoveType = "VENDOR_INVOICE"
	MoveTypeVendorCreditNote   MoveType = "VENDOR_CREDIT_NOTE"
)

// IsValid checks if the move type is valid
func (t MoveType) IsValid() bool {
	switch t {
	case MoveTypeCustomerInvoice, MoveTypeCustomerCreditNote,
		MoveTypeVendorInvoice, MoveTypeVendorCreditNote:
		return true
	}
	return false
}

// String returns the string representation
func (t MoveType) String() string {
	return string(t)
}

// IsCustomer returns true for customer-side move types
func (t MoveType) IsCustomer() bool {
	return t == MoveTypeCustomerInvoice || t == MoveTypeCustomerCreditNote
}

// CustomerMoveTypes returns the move types eligible for customer allocation
func CustomerMoveTypes() []MoveType {
	return []MoveType{MoveTypeCustomerInvoice, MoveTypeCustomerCreditNote}
}

// VendorMoveTypes returns the move types eligible for vendor allocation
func VendorMoveTypes() []MoveType {
	return []MoveType{MoveTypeVendorInvoice, MoveTypeVendorCreditNote}
}

// InvoiceState represents the lifecycle state of an invoice
type InvoiceState string

const (
	InvoiceStateDraft     InvoiceState = "DRAFT"
	InvoiceStatePosted    InvoiceState = "POSTED"
	InvoiceStateCancelled InvoiceState = "CANCELLED"
)

// IsValid checks if the state is valid
func (s InvoiceState) IsValid() bool {
	switch s {
	case InvoiceStateDraft, InvoiceStatePosted, InvoiceStateCancelled:
		return true
	}
	return false
}

// PaymentState tracks how much of a posted invoice has been settled
type PaymentState string

const (
	PaymentStateNotPaid PaymentState = "NOT_PAID"
	PaymentStatePartial PaymentState = "PARTIAL"
	PaymentStatePaid    PaymentState = "PAID"
)

// IsValid checks if the payment state is valid
func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentStateNotPaid, PaymentStatePartial, PaymentStatePaid:
		return true
	}
	return false
}

// IsOpen returns true while the invoice still carries an outstanding balance
func (s PaymentState) IsOpen() bool {
	return s == PaymentStateNotPaid || s == PaymentStatePartial
}

// OpenPaymentStates returns the payment states eligible for allocation
func OpenPaymentStates() []PaymentState {
	return []PaymentState{PaymentStateNotPaid, PaymentStatePartial}
}

// Invoice is an accounting move carrying a receivable or payable balance
// against a partner. AmountTotal and AmountResidual are expressed in the
// invoice's own currency; ledger line balances are in company currency.
type Invoice struct {
	shared.CompanyAggregateRoot
	Number              string               `json:"number"`
	MoveType            MoveType             `json:"move_type"`
	State               InvoiceState         `json:"state"`
	PaymentState        PaymentState         `json:"payment_state"`
	PartnerID           uuid.UUID            `json:"partner_id"`
	CommercialPartnerID uuid.UUID            `json:"commercial_partner_id"`
	PartnerName         string               `json:"partner_name"`
	InvoiceDate         time.Time            `json:"invoice_date"`
	Currency            valueobject.Currency `json:"currency"`
	AmountTotal         decimal.Decimal      `json:"amount_total"`
	AmountResidual      decimal.Decimal      `json:"amount_residual"`
	Lines               MoveLines            `json:"lines"`
}

// NewInvoice creates a draft invoice. amountTotal is in the invoice
// currency; amountCompany is the same value converted to company
// currency at the invoice date and becomes the settleable line's balance
// when the invoice is posted.
func NewInvoice(
	companyID uuid.UUID,
	number string,
	moveType MoveType,
	partnerID uuid.UUID,
	commercialPartnerID uuid.UUID,
	partnerName string,
	invoiceDate time.Time,
	currency valueobject.Currency,
	amountTotal decimal.Decimal,
) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !moveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVE_TYPE", "Move type is not valid")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not valid")
	}
	if amountTotal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}
	if commercialPartnerID == uuid.Nil {
		commercialPartnerID = partnerID
	}

	inv := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		MoveType:             moveType,
		State:                InvoiceStateDraft,
		PaymentState:         PaymentStateNotPaid,
		PartnerID:            partnerID,
		CommercialPartnerID:  commercialPartnerID,
		PartnerName:          partnerName,
		InvoiceDate:          invoiceDate,
		Currency:             currency,
		AmountTotal:          amountTotal,
		AmountResidual:       amountTotal,
		Lines:                MoveLines{},
	}

	return inv, nil
}

// settleableKind returns the account kind of the invoice's open line
func (inv *Invoice) settleableKind() AccountKind {
	if inv.MoveType.IsCustomer() {
		return AccountKindReceivable
	}
	return AccountKindPayable
}

// balanceSign returns the debit/credit sign of the settleable line.
// Customer invoices debit the receivable, vendor invoices credit the
// payable; credit notes invert.
func (inv *Invoice) balanceSign() decimal.Decimal {
	switch inv.MoveType {
	case MoveTypeCustomerInvoice, MoveTypeVendorCreditNote:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(-1)
	}
}

// Post finalizes the invoice and materializes its ledger lines.
// amountCompany is the invoice total converted to company currency.
func (inv *Invoice) Post(amountCompany decimal.Decimal) error {
	if inv.State != InvoiceStateDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot post invoice in %s state", inv.State))
	}
	if amountCompany.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Company-currency amount must be positive")
	}

	sign := inv.balanceSign()
	inv.Lines = MoveLines{
		NewMoveLine(inv.settleableKind(), amountCompany.Mul(sign), inv.AmountTotal.Mul(sign)),
		NewMoveLine(AccountKindOther, amountCompany.Mul(sign).Neg(), inv.AmountTotal.Mul(sign).Neg()),
	}
	inv.State = InvoiceStatePosted
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePostedEvent(inv))

	return nil
}

// OpenSettlementLine returns the invoice's first unreconciled
// receivable/payable line, or nil if none remains.
func (inv *Invoice) OpenSettlementLine() *MoveLine {
	if inv.State != InvoiceStatePosted {
		return nil
	}
	return inv.Lines.FirstOpenSettleable()
}

// ApplySettlement reduces the residual by the given amount (invoice
// currency, positive). When the residual reaches zero within tolerance
// the invoice flips to PAID and its settleable line is marked reconciled.
func (inv *Invoice) ApplySettlement(amount decimal.Decimal) error {
	if inv.State != InvoiceStatePosted {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle an invoice that is not posted")
	}
	if !inv.PaymentState.IsOpen() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot settle invoice in %s payment state", inv.PaymentState))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	residual := inv.AmountResidual.Abs()
	if amount.Sub(residual).GreaterThan(SettlementTolerance) {
		return shared.NewDomainError("EXCEEDS_RESIDUAL",
			fmt.Sprintf("Settlement amount %s exceeds residual %s", amount.String(), residual.String()))
	}

	remaining := residual.Sub(amount)
	if remaining.Abs().LessThanOrEqual(SettlementTolerance) {
		remaining = decimal.Zero
	}
	inv.AmountResidual = remaining

	if remaining.IsZero() {
		inv.PaymentState = PaymentStatePaid
		for i := range inv.Lines {
			if inv.Lines[i].AccountKind.IsSettleable() {
				inv.Lines[i].Reconciled = true
			}
		}
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.PaymentState = PaymentStatePartial
	}

	inv.IncrementVersion()

	return nil
}

// ResidualMoney returns the absolute residual as Money in the invoice currency
func (inv *Invoice) ResidualMoney() valueobject.Money {
	return valueobject.MustNewMoney(inv.AmountResidual.Abs(), inv.Currency)
}

// IsOpen returns true when the invoice is posted and not fully settled
func (inv *Invoice) IsOpen() bool {
	return inv.State == InvoiceStatePosted && inv.PaymentState.IsOpen() &&
		inv.AmountResidual.Abs().GreaterThan(decimal.Zero)
}
