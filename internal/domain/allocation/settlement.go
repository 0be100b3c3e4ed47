package allocation

import (
	"context"
	"fmt"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SkippedLine records an allocation line that could not be reconciled
// because its invoice no longer carries an open settleable ledger line.
// The payment is still posted; the caller must surface these as warnings.
type SkippedLine struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	AmountToPay   decimal.Decimal `json:"amount_to_pay"`
	Reason        string          `json:"reason"`
}

// SettlementResult is everything a confirmed settlement produced. The
// caller persists the whole result in one transaction.
type SettlementResult struct {
	Payment         *ledger.Payment
	Reconciliations []*ledger.Reconciliation
	UpdatedInvoices []*ledger.Invoice
	Skipped         []SkippedLine
}

// SettlementEngine validates allocation lines and builds the payment
// and reconciliations in memory. It never touches storage: validation
// failures leave no side effects, and persistence of a successful
// result is the caller's transaction.
type SettlementEngine struct {
	converter *currency.Converter
}

// NewSettlementEngine creates a settlement engine
func NewSettlementEngine(converter *currency.Converter) *SettlementEngine {
	return &SettlementEngine{converter: converter}
}

// validate applies the fail-fast checks before any payment is built
func (e *SettlementEngine) validate(req AllocationRequest, lines []AllocationLine, journal *ledger.Journal) (*ledger.PaymentMethodLine, decimal.Decimal, error) {
	total := decimal.Zero
	positive := 0
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, decimal.Decimal{}, err
		}
		if line.AmountToPay.IsPositive() {
			positive++
			total = total.Add(line.AmountToPay)
		}
	}
	if positive == 0 || !total.IsPositive() {
		return nil, decimal.Decimal{}, shared.NewDomainError(ErrCodeNothingToPay,
			"At least one line must have a positive amount to pay")
	}

	method, err := e.resolveMethod(req, journal)
	if err != nil {
		return nil, decimal.Decimal{}, err
	}

	return method, total, nil
}

// resolveMethod picks the requested payment method, or auto-selects the
// journal's first method for the payment direction
func (e *SettlementEngine) resolveMethod(req AllocationRequest, journal *ledger.Journal) (*ledger.PaymentMethodLine, error) {
	direction := req.Direction()

	if req.MethodID != uuid.Nil {
		method := journal.MethodByID(req.MethodID)
		if method == nil || method.Direction != direction {
			return nil, shared.NewDomainError(ErrCodeNoPaymentMethod,
				"Requested payment method is not available on the journal for this direction")
		}
		return method, nil
	}

	available := journal.AvailableMethods(direction)
	if len(available) == 0 {
		return nil, shared.NewDomainError(ErrCodeNoPaymentMethod,
			fmt.Sprintf("Journal %s has no %s payment method configured", journal.Code, direction))
	}
	return &available[0], nil
}

// Settle validates the lines, posts one payment for the total, and
// reconciles it against each positive-amount line in load order.
// Lines whose invoice no longer has an open ledger line are skipped and
// reported in the result.
func (e *SettlementEngine) Settle(
	ctx context.Context,
	req AllocationRequest,
	lines []AllocationLine,
	invoices map[uuid.UUID]*ledger.Invoice,
	journal *ledger.Journal,
	partnerName string,
	paymentNumber string,
) (*SettlementResult, error) {
	method, total, err := e.validate(req, lines, journal)
	if err != nil {
		return nil, err
	}

	memo := req.Memo
	if memo == "" {
		memo = fmt.Sprintf("Batch payment for %s", partnerName)
	}

	payment, err := ledger.NewPayment(
		req.CompanyID,
		paymentNumber,
		req.Direction(),
		req.PartnerID,
		journal.ID,
		method.ID,
		req.PaymentDate,
		req.Currency,
		total,
		memo,
	)
	if err != nil {
		return nil, err
	}

	totalCompany, err := e.converter.ToCompany(ctx, req.CompanyID, total, req.Currency, req.PaymentDate)
	if err != nil {
		return nil, err
	}
	if err := payment.Post(totalCompany); err != nil {
		return nil, err
	}

	anchor := payment.OpenSettlementLine()
	if anchor == nil {
		return nil, shared.NewDomainError(ErrCodeNoSettlementLine,
			"Posted payment has no open settlement line")
	}

	result := &SettlementResult{
		Payment:         payment,
		Reconciliations: make([]*ledger.Reconciliation, 0, len(lines)),
		UpdatedInvoices: make([]*ledger.Invoice, 0, len(lines)),
		Skipped:         make([]SkippedLine, 0),
	}

	for _, line := range lines {
		if !line.AmountToPay.IsPositive() {
			continue
		}

		inv, ok := invoices[line.InvoiceID]
		if !ok {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceID:     line.InvoiceID,
				InvoiceNumber: line.InvoiceNumber,
				AmountToPay:   line.AmountToPay,
				Reason:        "invoice not found",
			})
			continue
		}

		invLine := inv.OpenSettlementLine()
		if invLine == nil {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceID:     line.InvoiceID,
				InvoiceNumber: line.InvoiceNumber,
				AmountToPay:   line.AmountToPay,
				Reason:        "no open settlement line",
			})
			continue
		}

		amountCompany, err := e.converter.ToCompany(ctx, req.CompanyID,
			line.AmountToPay, req.Currency, req.PaymentDate)
		if err != nil {
			return nil, err
		}

		debitLine, creditLine := anchor, invLine
		debitMoveID, creditMoveID := payment.ID, inv.ID
		if invLine.Balance.IsPositive() {
			debitLine, creditLine = invLine, anchor
			debitMoveID, creditMoveID = inv.ID, payment.ID
		}

		rec, err := ledger.NewReconciliation(
			req.CompanyID,
			debitLine, creditLine,
			debitMoveID, creditMoveID,
			amountCompany.Abs(),
			line.AmountToPay,
			req.Currency,
		)
		if err != nil {
			return nil, err
		}
		result.Reconciliations = append(result.Reconciliations, rec)

		amountInvoice, err := e.converter.Convert(ctx, req.CompanyID,
			line.AmountToPay, req.Currency, inv.Currency, req.PaymentDate)
		if err != nil {
			return nil, err
		}
		if err := inv.ApplySettlement(amountInvoice); err != nil {
			return nil, err
		}
		result.UpdatedInvoices = append(result.UpdatedInvoices, inv)
	}

	if len(result.Skipped) == 0 {
		payment.MarkSettlementReconciled()
	}

	return result, nil
}
