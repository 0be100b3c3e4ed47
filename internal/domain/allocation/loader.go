package allocation

import (
	"context"
	"fmt"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// Loader proposes allocation lines for a request. Load is a pure
// function of its inputs: calling it again with the same request fully
// replaces the previous line set.
type Loader struct {
	partners        partner.Repository
	invoices        ledger.InvoiceRepository
	converter       *currency.Converter
	policy          DefaultAmountPolicy
	maxOpenInvoices int
}

// NewLoader creates an invoice loader
func NewLoader(
	partners partner.Repository,
	invoices ledger.InvoiceRepository,
	converter *currency.Converter,
	policy DefaultAmountPolicy,
	maxOpenInvoices int,
) *Loader {
	return &Loader{
		partners:        partners,
		invoices:        invoices,
		converter:       converter,
		policy:          policy,
		maxOpenInvoices: maxOpenInvoices,
	}
}

// Load returns one allocation line per open invoice of the partner,
// ordered by invoice date then number, with residuals converted to the
// request currency at the payment date. An incomplete request yields an
// empty set without error.
func (l *Loader) Load(ctx context.Context, req AllocationRequest) ([]AllocationLine, error) {
	if !req.IsComplete() {
		return []AllocationLine{}, nil
	}

	p, err := l.partners.FindByID(ctx, req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve partner: %w", err)
	}
	if !p.EligibleFor(req.Role) {
		return []AllocationLine{}, nil
	}

	partnerIDs := []uuid.UUID{req.PartnerID}
	if req.IncludeCommercialGroup {
		partnerIDs, err = l.partners.FindCommercialGroup(ctx, req.CompanyID, req.PartnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve commercial group: %w", err)
		}
	}

	policy := l.policy
	if req.DefaultAmountPolicy != "" {
		policy, err = NewDefaultAmountPolicy(req.DefaultAmountPolicy)
		if err != nil {
			return nil, err
		}
	}

	open, err := l.invoices.FindOpenByPartner(ctx, ledger.OpenInvoiceQuery{
		CompanyID:  req.CompanyID,
		PartnerIDs: partnerIDs,
		MoveTypes:  req.EligibleMoveTypes(),
		Limit:      l.maxOpenInvoices,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load open invoices: %w", err)
	}

	lines := make([]AllocationLine, 0, len(open))
	for _, inv := range open {
		residual := inv.AmountResidual.Abs()
		converted, err := l.converter.Convert(ctx, req.CompanyID, residual,
			inv.Currency, req.Currency, req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("failed to convert residual of %s: %w", inv.Number, err)
		}

		lines = append(lines, AllocationLine{
			InvoiceID:         inv.ID,
			InvoiceNumber:     inv.Number,
			InvoiceDate:       inv.InvoiceDate,
			MoveType:          inv.MoveType,
			InvoiceCurrency:   inv.Currency,
			Residual:          residual,
			ResidualConverted: converted,
			AmountToPay:       policy.DefaultAmount(converted),
		})
	}

	return lines, nil
}
