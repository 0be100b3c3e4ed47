package ledger

import (
	"fmt"
	"time"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState for payments mirrors the invoice lifecycle
type PaymentLifecycle string

const (
	PaymentLifecycleDraft     PaymentLifecycle = "DRAFT"
	PaymentLifecyclePosted    PaymentLifecycle = "POSTED"
	PaymentLifecycleCancelled PaymentLifecycle = "CANCELLED"
)

// IsValid checks if the lifecycle state is valid
func (s PaymentLifecycle) IsValid() bool {
	switch s {
	case PaymentLifecycleDraft, PaymentLifecyclePosted, PaymentLifecycleCancelled:
		return true
	}
	return false
}

// Payment is a single money movement registered on a journal. Amount is
// expressed in the payment's own currency; ledger line balances are in
// company currency.
type Payment struct {
	shared.CompanyAggregateRoot
	Number      string               `json:"number"`
	State       PaymentLifecycle     `json:"state"`
	Direction   PaymentDirection     `json:"direction"`
	PartnerID   uuid.UUID            `json:"partner_id"`
	JournalID   uuid.UUID            `json:"journal_id"`
	MethodID    uuid.UUID            `json:"method_id"`
	PaymentDate time.Time            `json:"payment_date"`
	Currency    valueobject.Currency `json:"currency"`
	Amount      decimal.Decimal      `json:"amount"`
	Memo        string               `json:"memo"`
	Lines       MoveLines            `json:"lines"`
}

// NewPayment creates a draft payment
func NewPayment(
	companyID uuid.UUID,
	number string,
	direction PaymentDirection,
	partnerID uuid.UUID,
	journalID uuid.UUID,
	methodID uuid.UUID,
	paymentDate time.Time,
	currency valueobject.Currency,
	amount decimal.Decimal,
	memo string,
) (*Payment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Payment direction must be INBOUND or OUTBOUND")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if journalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOURNAL", "Journal ID cannot be empty")
	}
	if methodID == uuid.Nil {
		return nil, shared.NewDomainError("NO_PAYMENT_METHOD", "Payment method cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not valid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("NEGATIVE_AMOUNT", "Payment amount must be positive")
	}

	return &Payment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		State:                PaymentLifecycleDraft,
		Direction:            direction,
		PartnerID:            partnerID,
		JournalID:            journalID,
		MethodID:             methodID,
		PaymentDate:          paymentDate,
		Currency:             currency,
		Amount:               amount,
		Memo:                 memo,
		Lines:                MoveLines{},
	}, nil
}

// settleableKind returns the counterpart account of the payment. Inbound
// payments settle receivables; outbound payments settle payables.
func (p *Payment) settleableKind() AccountKind {
	if p.Direction == DirectionInbound {
		return AccountKindReceivable
	}
	return AccountKindPayable
}

// anchorSign returns the sign of the payment's settleable line balance.
// An inbound payment credits the receivable (negative balance); an
// outbound payment debits the payable (positive balance).
func (p *Payment) anchorSign() decimal.Decimal {
	if p.Direction == DirectionInbound {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Post finalizes the payment and materializes its ledger lines.
// amountCompany is the payment amount converted to company currency at
// the payment date.
func (p *Payment) Post(amountCompany decimal.Decimal) error {
	if p.State != PaymentLifecycleDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot post payment in %s state", p.State))
	}
	if amountCompany.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Company-currency amount must be positive")
	}

	sign := p.anchorSign()
	p.Lines = MoveLines{
		NewMoveLine(p.settleableKind(), amountCompany.Mul(sign), p.Amount.Mul(sign)),
		NewMoveLine(AccountKindLiquidity, amountCompany.Mul(sign).Neg(), p.Amount.Mul(sign).Neg()),
	}
	p.State = PaymentLifecyclePosted
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentPostedEvent(p))

	return nil
}

// OpenSettlementLine returns the payment's unreconciled receivable/payable
// line, or nil if the payment is not posted or fully reconciled.
func (p *Payment) OpenSettlementLine() *MoveLine {
	if p.State != PaymentLifecyclePosted {
		return nil
	}
	return p.Lines.FirstOpenSettleable()
}

// MarkSettlementReconciled marks the payment's settleable line reconciled
func (p *Payment) MarkSettlementReconciled() {
	for i := range p.Lines {
		if p.Lines[i].AccountKind.IsSettleable() {
			p.Lines[i].Reconciled = true
		}
	}
	p.IncrementVersion()
}
