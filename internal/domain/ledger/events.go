package ledger

import (
	"time"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the ledger aggregates
const (
	EventTypeInvoicePosted = "invoice.posted"
	EventTypeInvoicePaid   = "invoice.paid"
	EventTypePaymentPosted = "payment.posted"
)

// InvoicePostedEvent is raised when an invoice is posted
type InvoicePostedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	MoveType    MoveType        `json:"move_type"`
	PartnerID   uuid.UUID       `json:"partner_id"`
	AmountTotal decimal.Decimal `json:"amount_total"`
	Currency    string          `json:"currency"`
	InvoiceDate time.Time       `json:"invoice_date"`
}

// NewInvoicePostedEvent creates a new InvoicePostedEvent
func NewInvoicePostedEvent(inv *Invoice) *InvoicePostedEvent {
	return &InvoicePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePosted, "Invoice", inv.ID),
		Number:          inv.Number,
		MoveType:        inv.MoveType,
		PartnerID:       inv.PartnerID,
		AmountTotal:     inv.AmountTotal,
		Currency:        inv.Currency.String(),
		InvoiceDate:     inv.InvoiceDate,
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number    string    `json:"number"`
	PartnerID uuid.UUID `json:"partner_id"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, "Invoice", inv.ID),
		Number:          inv.Number,
		PartnerID:       inv.PartnerID,
	}
}

// PaymentPostedEvent is raised when a payment is posted
type PaymentPostedEvent struct {
	shared.BaseDomainEvent
	Number    string           `json:"number"`
	PartnerID uuid.UUID        `json:"partner_id"`
	JournalID uuid.UUID        `json:"journal_id"`
	Direction PaymentDirection `json:"direction"`
	Amount    decimal.Decimal  `json:"amount"`
	Currency  string           `json:"currency"`
}

// NewPaymentPostedEvent creates a new PaymentPostedEvent
func NewPaymentPostedEvent(p *Payment) *PaymentPostedEvent {
	return &PaymentPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentPosted, "Payment", p.ID),
		Number:          p.Number,
		PartnerID:       p.PartnerID,
		JournalID:       p.JournalID,
		Direction:       p.Direction,
		Amount:          p.Amount,
		Currency:        p.Currency.String(),
	}
}
