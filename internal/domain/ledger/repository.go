package ledger

import (
	"context"

	"github.com/google/uuid"
)

// OpenInvoiceQuery selects posted, not-fully-paid invoices for allocation.
// Invoices are returned ordered by invoice date ascending, then number
// ascending.
type OpenInvoiceQuery struct {
	CompanyID  uuid.UUID
	PartnerIDs []uuid.UUID
	MoveTypes  []MoveType
	Limit      int
}

// InvoiceRepository is the persistence contract for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindOpenByPartner(ctx context.Context, query OpenInvoiceQuery) ([]Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
	SaveAll(ctx context.Context, invoices []*Invoice) error
}

// JournalRepository is the persistence contract for journals
type JournalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Journal, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Journal, error)
	Save(ctx context.Context, j *Journal) error
}

// PaymentRepository is the persistence contract for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// NextNumber reserves the next payment sequence number for the company
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	Save(ctx context.Context, p *Payment) error
}

// ReconciliationRepository is the persistence contract for reconciliations
type ReconciliationRepository interface {
	FindByMoveID(ctx context.Context, moveID uuid.UUID) ([]Reconciliation, error)
	SaveAll(ctx context.Context, recs []*Reconciliation) error
}
