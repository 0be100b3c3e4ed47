package allocation

import (
	"context"
	"fmt"

	"github.com/batchpay/backend/internal/domain/allocation"
	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TxRepos bundles the repositories bound to one transaction
type TxRepos struct {
	Invoices        ledger.InvoiceRepository
	Payments        ledger.PaymentRepository
	Reconciliations ledger.ReconciliationRepository
}

// TransactionManager runs a function inside a storage transaction.
// The whole function commits or rolls back as one unit.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// Service orchestrates loading allocation lines and confirming settlements
type Service struct {
	partners  partner.Repository
	journals  ledger.JournalRepository
	payments  ledger.PaymentRepository
	loader    *allocation.Loader
	engine    *allocation.SettlementEngine
	converter *currency.Converter
	txm       TransactionManager
	logger    *zap.Logger
}

// NewService creates an allocation service
func NewService(
	partners partner.Repository,
	journals ledger.JournalRepository,
	payments ledger.PaymentRepository,
	loader *allocation.Loader,
	engine *allocation.SettlementEngine,
	converter *currency.Converter,
	txm TransactionManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		partners:  partners,
		journals:  journals,
		payments:  payments,
		loader:    loader,
		engine:    engine,
		converter: converter,
		txm:       txm,
		logger:    logger,
	}
}

// LoadResult is the outcome of loading allocation lines
type LoadResult struct {
	Lines []allocation.AllocationLine `json:"lines"`
	Total string                      `json:"total"`
}

// LoadInvoices builds the allocation line set for a request. Rerunning
// with changed inputs fully replaces the previous set.
func (s *Service) LoadInvoices(ctx context.Context, req allocation.AllocationRequest) (*LoadResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "load_invoices")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPartnerID, req.PartnerID.String(),
		telemetry.SpanAttrPartnerRole, string(req.Role),
		telemetry.SpanAttrCurrency, req.Currency.String(),
	)

	lines, err := s.loader.Load(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrLineCount, len(lines))

	total := sumAmounts(lines)
	return &LoadResult{Lines: lines, Total: total.String()}, nil
}

// sumAmounts totals the amount-to-pay across a line set
func sumAmounts(lines []allocation.AllocationLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.AmountToPay)
	}
	return total
}

// ConfirmResult is the outcome of a confirmed settlement
type ConfirmResult struct {
	Payment         *ledger.Payment          `json:"payment"`
	Reconciliations []*ledger.Reconciliation `json:"reconciliations"`
	Skipped         []allocation.SkippedLine `json:"skipped"`
}

// ConfirmAllocation validates the lines, posts one payment, reconciles
// it against the selected invoices, and persists everything in a single
// transaction. Validation failures leave no trace in storage.
func (s *Service) ConfirmAllocation(ctx context.Context, req allocation.AllocationRequest, lines []allocation.AllocationLine) (*ConfirmResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "confirm")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPartnerID, req.PartnerID.String(),
		telemetry.SpanAttrJournalID, req.JournalID.String(),
		telemetry.SpanAttrCurrency, req.Currency.String(),
		telemetry.SpanAttrLineCount, len(lines),
	)

	if !req.IsComplete() || req.JournalID == uuid.Nil {
		err := shared.NewDomainError("INCOMPLETE_REQUEST",
			"Partner, role, journal, currency and date are all required")
		telemetry.RecordError(span, err)
		return nil, err
	}

	p, err := s.partners.FindByID(ctx, req.PartnerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to resolve partner: %w", err)
	}

	journal, err := s.journals.FindByID(ctx, req.JournalID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to resolve journal: %w", err)
	}

	// a journal fixed to a currency overrides the requested one
	if journal.Currency != "" && journal.Currency != req.Currency {
		s.logger.Info("Journal currency overrides requested payment currency",
			zap.String("journal", journal.Code),
			zap.String("requested", req.Currency.String()),
			zap.String("effective", journal.Currency.String()),
		)
		req.Currency = journal.Currency
	}

	number, err := s.payments.NextNumber(ctx, req.CompanyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to reserve payment number: %w", err)
	}

	var result *allocation.SettlementResult
	err = s.txm.Do(ctx, func(txCtx context.Context, repos TxRepos) error {
		invoices := make(map[uuid.UUID]*ledger.Invoice, len(lines))
		for i := range lines {
			if !lines[i].AmountToPay.IsPositive() {
				continue
			}
			inv, err := repos.Invoices.FindByID(txCtx, lines[i].InvoiceID)
			if err != nil {
				return fmt.Errorf("failed to load invoice %s: %w", lines[i].InvoiceNumber, err)
			}
			invoices[inv.ID] = inv

			// the residual snapshot is recomputed from current ledger
			// state so a stale submission cannot pass validation
			residual := inv.AmountResidual.Abs()
			converted, err := s.converter.Convert(txCtx, req.CompanyID, residual,
				inv.Currency, req.Currency, req.PaymentDate)
			if err != nil {
				return fmt.Errorf("failed to convert residual of %s: %w", inv.Number, err)
			}
			lines[i].Residual = residual
			lines[i].ResidualConverted = converted
		}

		result, err = s.engine.Settle(txCtx, req, lines, invoices, journal, p.DisplayName, number)
		if err != nil {
			return err
		}

		if err := repos.Payments.Save(txCtx, result.Payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if err := repos.Reconciliations.SaveAll(txCtx, result.Reconciliations); err != nil {
			return fmt.Errorf("failed to save reconciliations: %w", err)
		}
		if err := repos.Invoices.SaveAll(txCtx, result.UpdatedInvoices); err != nil {
			return fmt.Errorf("failed to save invoices: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, skipped := range result.Skipped {
		s.logger.Warn("Allocation line skipped: invoice has no open settlement line",
			zap.String("invoice_number", skipped.InvoiceNumber),
			zap.String("amount", skipped.AmountToPay.String()),
			zap.String("reason", skipped.Reason),
		)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaymentID, result.Payment.ID.String(),
		telemetry.SpanAttrAmount, result.Payment.Amount.String(),
	)
	telemetry.SetOK(span)

	s.logger.Info("Batch payment confirmed",
		zap.String("payment_number", result.Payment.Number),
		zap.String("amount", result.Payment.Amount.String()),
		zap.String("currency", result.Payment.Currency.String()),
		zap.Int("reconciliations", len(result.Reconciliations)),
		zap.Int("skipped", len(result.Skipped)),
	)

	return &ConfirmResult{
		Payment:         result.Payment,
		Reconciliations: result.Reconciliations,
		Skipped:         result.Skipped,
	}, nil
}
