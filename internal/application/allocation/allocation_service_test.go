package allocation

import (
	"context"
	"testing"
	"time"

	domainalloc "github.com/batchpay/backend/internal/domain/allocation"
	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePartnerRepo struct {
	byID map[uuid.UUID]*partner.Partner
}

func (f *fakePartnerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Partner, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakePartnerRepo) FindByCode(_ context.Context, _ uuid.UUID, _ string) (*partner.Partner, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePartnerRepo) FindAll(_ context.Context, _ uuid.UUID, _ partner.Filter) ([]partner.Partner, error) {
	return nil, nil
}

func (f *fakePartnerRepo) FindCommercialGroup(_ context.Context, _ uuid.UUID, id uuid.UUID) ([]uuid.UUID, error) {
	return []uuid.UUID{id}, nil
}

func (f *fakePartnerRepo) Save(_ context.Context, _ *partner.Partner) error { return nil }

type fakeJournalRepo struct {
	byID map[uuid.UUID]*ledger.Journal
}

func (f *fakeJournalRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Journal, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return j, nil
}

func (f *fakeJournalRepo) FindAll(_ context.Context, _ uuid.UUID) ([]ledger.Journal, error) {
	return nil, nil
}

func (f *fakeJournalRepo) Save(_ context.Context, _ *ledger.Journal) error { return nil }

type fakeInvoiceRepo struct {
	byID  map[uuid.UUID]*ledger.Invoice
	saved []*ledger.Invoice
}

func (f *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) FindOpenByPartner(_ context.Context, _ ledger.OpenInvoiceQuery) ([]ledger.Invoice, error) {
	out := make([]ledger.Invoice, 0, len(f.byID))
	for _, inv := range f.byID {
		if inv.IsOpen() {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Save(_ context.Context, inv *ledger.Invoice) error {
	f.saved = append(f.saved, inv)
	return nil
}

func (f *fakeInvoiceRepo) SaveAll(_ context.Context, invoices []*ledger.Invoice) error {
	f.saved = append(f.saved, invoices...)
	return nil
}

type fakePaymentRepo struct {
	saved []*ledger.Payment
	next  int
}

func (f *fakePaymentRepo) FindByID(_ context.Context, _ uuid.UUID) (*ledger.Payment, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePaymentRepo) NextNumber(_ context.Context, _ uuid.UUID) (string, error) {
	f.next++
	return "PAY/2026/000" + string(rune('0'+f.next)), nil
}

func (f *fakePaymentRepo) Save(_ context.Context, p *ledger.Payment) error {
	f.saved = append(f.saved, p)
	return nil
}

type fakeReconciliationRepo struct {
	saved []*ledger.Reconciliation
}

func (f *fakeReconciliationRepo) FindByMoveID(_ context.Context, _ uuid.UUID) ([]ledger.Reconciliation, error) {
	return nil, nil
}

func (f *fakeReconciliationRepo) SaveAll(_ context.Context, recs []*ledger.Reconciliation) error {
	f.saved = append(f.saved, recs...)
	return nil
}

// passthroughTxm runs the function directly with the given repos
type passthroughTxm struct {
	repos TxRepos
}

func (t *passthroughTxm) Do(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	return fn(ctx, t.repos)
}

type staticRates map[valueobject.Currency]string

func (r staticRates) RateAt(_ context.Context, _ uuid.UUID, c valueobject.Currency, _ time.Time) (decimal.Decimal, error) {
	rate, ok := r[c]
	if !ok {
		return decimal.Decimal{}, shared.NewDomainError("RATE_NOT_FOUND", "No exchange rate for "+c.String())
	}
	return decimal.RequireFromString(rate), nil
}

type serviceFixture struct {
	companyID uuid.UUID
	partnerID uuid.UUID
	journalID uuid.UUID
	invoices  *fakeInvoiceRepo
	payments  *fakePaymentRepo
	recs      *fakeReconciliationRepo
	service   *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	companyID := uuid.New()

	p, err := partner.NewPartner(companyID, "CUST001", "Customer A", partner.RoleCustomer)
	require.NoError(t, err)

	journal, err := ledger.NewJournal(companyID, "Main Bank", "BNK1", ledger.JournalTypeBank)
	require.NoError(t, err)
	_, err = journal.AddMethodLine("manual in", ledger.DirectionInbound)
	require.NoError(t, err)

	partners := &fakePartnerRepo{byID: map[uuid.UUID]*partner.Partner{p.ID: p}}
	journals := &fakeJournalRepo{byID: map[uuid.UUID]*ledger.Journal{journal.ID: journal}}
	invoices := &fakeInvoiceRepo{byID: map[uuid.UUID]*ledger.Invoice{}}
	payments := &fakePaymentRepo{}
	recs := &fakeReconciliationRepo{}

	converter := currency.NewConverter(valueobject.USD, staticRates{valueobject.EUR: "1.10"})
	loader := domainalloc.NewLoader(partners, invoices, converter, domainalloc.NewFullResidualPolicy(), 200)
	engine := domainalloc.NewSettlementEngine(converter)
	txm := &passthroughTxm{repos: TxRepos{
		Invoices:        invoices,
		Payments:        payments,
		Reconciliations: recs,
	}}

	return &serviceFixture{
		companyID: companyID,
		partnerID: p.ID,
		journalID: journal.ID,
		invoices:  invoices,
		payments:  payments,
		recs:      recs,
		service:   NewService(partners, journals, payments, loader, engine, converter, txm, zap.NewNop()),
	}
}

func (fx *serviceFixture) addInvoice(t *testing.T, number, total string) *ledger.Invoice {
	t.Helper()
	inv, err := ledger.NewInvoice(fx.companyID, number, ledger.MoveTypeCustomerInvoice,
		fx.partnerID, uuid.Nil, "Customer A",
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		valueobject.USD, decimal.RequireFromString(total))
	require.NoError(t, err)
	require.NoError(t, inv.Post(decimal.RequireFromString(total)))
	fx.invoices.byID[inv.ID] = inv
	return inv
}

func (fx *serviceFixture) request() domainalloc.AllocationRequest {
	return domainalloc.AllocationRequest{
		CompanyID:   fx.companyID,
		PartnerID:   fx.partnerID,
		Role:        partner.RoleCustomer,
		Currency:    valueobject.USD,
		PaymentDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		JournalID:   fx.journalID,
	}
}

func lineFor(inv *ledger.Invoice, amount string) domainalloc.AllocationLine {
	return domainalloc.AllocationLine{
		InvoiceID:         inv.ID,
		InvoiceNumber:     inv.Number,
		InvoiceDate:       inv.InvoiceDate,
		MoveType:          inv.MoveType,
		InvoiceCurrency:   inv.Currency,
		Residual:          inv.AmountResidual.Abs(),
		ResidualConverted: inv.AmountResidual.Abs(),
		AmountToPay:       decimal.RequireFromString(amount),
	}
}

func TestServiceLoadInvoices(t *testing.T) {
	t.Run("returns lines with totals", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.addInvoice(t, "INV/001", "100.00")
		fx.addInvoice(t, "INV/002", "50.00")

		result, err := fx.service.LoadInvoices(context.Background(), fx.request())
		require.NoError(t, err)

		assert.Len(t, result.Lines, 2)
		assert.Equal(t, "150", result.Total)
	})

	t.Run("incomplete request yields empty result", func(t *testing.T) {
		fx := newServiceFixture(t)
		fx.addInvoice(t, "INV/001", "100.00")

		req := fx.request()
		req.PartnerID = uuid.Nil
		result, err := fx.service.LoadInvoices(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, result.Lines)
	})
}

func TestServiceConfirmAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("persists payment, reconciliations and invoices together", func(t *testing.T) {
		fx := newServiceFixture(t)
		inv1 := fx.addInvoice(t, "INV/001", "100.00")
		inv2 := fx.addInvoice(t, "INV/002", "50.00")

		result, err := fx.service.ConfirmAllocation(ctx, fx.request(),
			[]domainalloc.AllocationLine{lineFor(inv1, "100.00"), lineFor(inv2, "50.00")})
		require.NoError(t, err)

		assert.True(t, result.Payment.Amount.Equal(decimal.RequireFromString("150.00")))
		require.Len(t, fx.payments.saved, 1)
		assert.Len(t, fx.recs.saved, 2)
		assert.Len(t, fx.invoices.saved, 2)
		assert.Empty(t, result.Skipped)
	})

	t.Run("validation failure persists nothing", func(t *testing.T) {
		fx := newServiceFixture(t)
		inv := fx.addInvoice(t, "INV/001", "100.00")

		_, err := fx.service.ConfirmAllocation(ctx, fx.request(),
			[]domainalloc.AllocationLine{lineFor(inv, "150.00")})
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, domainalloc.ErrCodeOverAllocation, domainErr.Code)
		assert.Empty(t, fx.payments.saved)
		assert.Empty(t, fx.recs.saved)
	})

	t.Run("missing journal fails before any mutation", func(t *testing.T) {
		fx := newServiceFixture(t)
		inv := fx.addInvoice(t, "INV/001", "100.00")

		req := fx.request()
		req.JournalID = uuid.New()
		_, err := fx.service.ConfirmAllocation(ctx, req,
			[]domainalloc.AllocationLine{lineFor(inv, "100.00")})
		require.Error(t, err)
		assert.Empty(t, fx.payments.saved)
	})

	t.Run("journal fixed currency overrides the request", func(t *testing.T) {
		fx := newServiceFixture(t)

		inv, err := ledger.NewInvoice(fx.companyID, "INV/EUR", ledger.MoveTypeCustomerInvoice,
			fx.partnerID, uuid.Nil, "Customer A",
			time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			valueobject.EUR, decimal.RequireFromString("100.00"))
		require.NoError(t, err)
		require.NoError(t, inv.Post(decimal.RequireFromString("110.00")))
		fx.invoices.byID[inv.ID] = inv

		journal, err := ledger.NewJournal(fx.companyID, "EUR Bank", "BNK2", ledger.JournalTypeBank)
		require.NoError(t, err)
		require.NoError(t, journal.SetCurrency(valueobject.EUR))
		_, err = journal.AddMethodLine("manual in", ledger.DirectionInbound)
		require.NoError(t, err)

		fxJournals := &fakeJournalRepo{byID: map[uuid.UUID]*ledger.Journal{journal.ID: journal}}
		fx.service.journals = fxJournals

		req := fx.request()
		req.JournalID = journal.ID
		line := domainalloc.AllocationLine{
			InvoiceID:         inv.ID,
			InvoiceNumber:     inv.Number,
			InvoiceCurrency:   valueobject.EUR,
			Residual:          decimal.RequireFromString("100.00"),
			ResidualConverted: decimal.RequireFromString("100.00"),
			AmountToPay:       decimal.RequireFromString("100.00"),
		}

		result, err := fx.service.ConfirmAllocation(ctx, req, []domainalloc.AllocationLine{line})
		require.NoError(t, err)
		assert.Equal(t, valueobject.EUR, result.Payment.Currency)
	})

	t.Run("stale residual snapshot is revalidated against the ledger", func(t *testing.T) {
		fx := newServiceFixture(t)
		inv := fx.addInvoice(t, "INV/001", "100.00")
		line := lineFor(inv, "100.00")

		// settled elsewhere after the lines were loaded: residual 100 -> 40
		require.NoError(t, inv.ApplySettlement(decimal.RequireFromString("60.00")))

		_, err := fx.service.ConfirmAllocation(ctx, fx.request(),
			[]domainalloc.AllocationLine{line})
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, domainalloc.ErrCodeOverAllocation, domainErr.Code)
		assert.Empty(t, fx.payments.saved)
		assert.Empty(t, fx.recs.saved)
	})

	t.Run("recomputed snapshot still allows paying the remaining residual", func(t *testing.T) {
		fx := newServiceFixture(t)
		inv := fx.addInvoice(t, "INV/001", "100.00")
		line := lineFor(inv, "40.00")

		// the submitted line still claims the full 100.00 residual
		require.NoError(t, inv.ApplySettlement(decimal.RequireFromString("60.00")))

		result, err := fx.service.ConfirmAllocation(ctx, fx.request(),
			[]domainalloc.AllocationLine{line})
		require.NoError(t, err)

		assert.True(t, result.Payment.Amount.Equal(decimal.RequireFromString("40.00")))
		assert.Equal(t, ledger.PaymentStatePaid, inv.PaymentState)
		assert.Empty(t, result.Skipped)
	})
}
