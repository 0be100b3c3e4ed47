package allocation

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/batchpay/backend/internal/domain/currency"
	"github.com/batchpay/backend/internal/domain/ledger"
	"github.com/batchpay/backend/internal/domain/partner"
	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	companyID uuid.UUID
	partnerID uuid.UUID
	journal   *ledger.Journal
	converter *currency.Converter
	engine    *SettlementEngine
	invoices  map[uuid.UUID]*ledger.Invoice
	lines     []AllocationLine
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	companyID := uuid.New()

	journal, err := ledger.NewJournal(companyID, "Main Bank", "BNK1", ledger.JournalTypeBank)
	require.NoError(t, err)
	_, err = journal.AddMethodLine("manual in", ledger.DirectionInbound)
	require.NoError(t, err)
	_, err = journal.AddMethodLine("manual out", ledger.DirectionOutbound)
	require.NoError(t, err)

	converter := currency.NewConverter(valueobject.USD, staticRates{
		valueobject.EUR: "1.10",
	})

	return &settlementFixture{
		companyID: companyID,
		partnerID: uuid.New(),
		journal:   journal,
		converter: converter,
		engine:    NewSettlementEngine(converter),
		invoices:  make(map[uuid.UUID]*ledger.Invoice),
		lines:     make([]AllocationLine, 0),
	}
}

func (fx *settlementFixture) addLine(t *testing.T, number string, ccy valueobject.Currency, residual, amountToPay string) *ledger.Invoice {
	t.Helper()
	inv, err := ledger.NewInvoice(fx.companyID, number, ledger.MoveTypeCustomerInvoice,
		fx.partnerID, uuid.Nil, "Customer A",
		time.Date(2026, 1, 10+len(fx.lines), 0, 0, 0, 0, time.UTC),
		ccy, decimal.RequireFromString(residual))
	require.NoError(t, err)

	companyAmount, err := fx.converter.ToCompany(context.Background(), fx.companyID,
		decimal.RequireFromString(residual), ccy, inv.InvoiceDate)
	require.NoError(t, err)
	require.NoError(t, inv.Post(companyAmount))
	fx.invoices[inv.ID] = inv

	converted, err := fx.converter.Convert(context.Background(), fx.companyID,
		decimal.RequireFromString(residual), ccy, valueobject.USD,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	fx.lines = append(fx.lines, AllocationLine{
		InvoiceID:         inv.ID,
		InvoiceNumber:     number,
		InvoiceDate:       inv.InvoiceDate,
		MoveType:          inv.MoveType,
		InvoiceCurrency:   ccy,
		Residual:          decimal.RequireFromString(residual),
		ResidualConverted: converted,
		AmountToPay:       decimal.RequireFromString(amountToPay),
	})
	return inv
}

func (fx *settlementFixture) request() AllocationRequest {
	return AllocationRequest{
		CompanyID:   fx.companyID,
		PartnerID:   fx.partnerID,
		Role:        partner.RoleCustomer,
		Currency:    valueobject.USD,
		PaymentDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		JournalID:   fx.journal.ID,
	}
}

func (fx *settlementFixture) settle(t *testing.T, req AllocationRequest) (*SettlementResult, error) {
	t.Helper()
	return fx.engine.Settle(context.Background(), req, fx.lines, fx.invoices,
		fx.journal, "Customer A", "PAY/2026/0001")
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected domain error, got %T", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestSettlementEngineValidation(t *testing.T) {
	t.Run("all zero amounts fail with NOTHING_TO_PAY", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "0")
		fx.addLine(t, "INV/002", valueobject.USD, "50.00", "0")

		result, err := fx.settle(t, fx.request())
		assertDomainErrorCode(t, err, ErrCodeNothingToPay)
		assert.Nil(t, result)
	})

	t.Run("negative amount fails with NEGATIVE_AMOUNT", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "-10.00")

		_, err := fx.settle(t, fx.request())
		assertDomainErrorCode(t, err, ErrCodeNegativeAmount)
	})

	t.Run("amount above residual fails with OVER_ALLOCATION and leaves invoices untouched", func(t *testing.T) {
		fx := newSettlementFixture(t)
		inv1 := fx.addLine(t, "INV/001", valueobject.USD, "100.00", "150.00")
		fx.addLine(t, "INV/002", valueobject.USD, "50.00", "0")

		result, err := fx.settle(t, fx.request())
		assertDomainErrorCode(t, err, ErrCodeOverAllocation)
		assert.Nil(t, result)
		assert.Equal(t, ledger.PaymentStateNotPaid, inv1.PaymentState)
	})

	t.Run("amount within tolerance of residual passes", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.0000005")

		_, err := fx.settle(t, fx.request())
		require.NoError(t, err)
	})

	t.Run("journal without matching method fails with NO_PAYMENT_METHOD", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")

		bare, err := ledger.NewJournal(fx.companyID, "Bare", "BRE", ledger.JournalTypeBank)
		require.NoError(t, err)
		fx.journal = bare

		_, settleErr := fx.settle(t, fx.request())
		assertDomainErrorCode(t, settleErr, ErrCodeNoPaymentMethod)
	})

	t.Run("explicit method with wrong direction fails with NO_PAYMENT_METHOD", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")

		outbound := fx.journal.AvailableMethods(ledger.DirectionOutbound)
		require.NotEmpty(t, outbound)

		req := fx.request()
		req.MethodID = outbound[0].ID
		_, err := fx.settle(t, req)
		assertDomainErrorCode(t, err, ErrCodeNoPaymentMethod)
	})
}

func TestSettlementEngineSettle(t *testing.T) {
	t.Run("two USD invoices produce one payment and two reconciliations", func(t *testing.T) {
		fx := newSettlementFixture(t)
		inv1 := fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")
		inv2 := fx.addLine(t, "INV/002", valueobject.USD, "50.00", "50.00")

		result, err := fx.settle(t, fx.request())
		require.NoError(t, err)

		assert.Equal(t, ledger.PaymentLifecyclePosted, result.Payment.State)
		assert.True(t, result.Payment.Amount.Equal(decimal.RequireFromString("150.00")))
		assert.Equal(t, ledger.DirectionInbound, result.Payment.Direction)

		require.Len(t, result.Reconciliations, 2)
		assert.True(t, result.Reconciliations[0].AmountCurrency.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, result.Reconciliations[1].AmountCurrency.Equal(decimal.RequireFromString("50.00")))

		assert.Equal(t, ledger.PaymentStatePaid, inv1.PaymentState)
		assert.Equal(t, ledger.PaymentStatePaid, inv2.PaymentState)
		assert.Empty(t, result.Skipped)
	})

	t.Run("reconciliation amounts sum to the payment total", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "60.00")
		fx.addLine(t, "INV/002", valueobject.USD, "50.00", "25.50")
		fx.addLine(t, "INV/003", valueobject.USD, "80.00", "0")

		result, err := fx.settle(t, fx.request())
		require.NoError(t, err)

		sum := decimal.Zero
		for _, rec := range result.Reconciliations {
			sum = sum.Add(rec.AmountCurrency)
		}
		assert.True(t, sum.Equal(result.Payment.Amount))
	})

	t.Run("partial amount leaves the invoice partially paid", func(t *testing.T) {
		fx := newSettlementFixture(t)
		inv := fx.addLine(t, "INV/001", valueobject.USD, "100.00", "40.00")

		_, err := fx.settle(t, fx.request())
		require.NoError(t, err)

		assert.Equal(t, ledger.PaymentStatePartial, inv.PaymentState)
		assert.True(t, inv.AmountResidual.Equal(decimal.RequireFromString("60.00")))
	})

	t.Run("EUR invoice settled in USD converts back to its own currency", func(t *testing.T) {
		fx := newSettlementFixture(t)
		// 100 EUR at 1.10 = 110 USD
		inv := fx.addLine(t, "INV/EUR", valueobject.EUR, "100.00", "110.00")

		result, err := fx.settle(t, fx.request())
		require.NoError(t, err)

		assert.Equal(t, ledger.PaymentStatePaid, inv.PaymentState)
		require.Len(t, result.Reconciliations, 1)
		// company currency amount is the USD value
		assert.True(t, result.Reconciliations[0].Amount.Equal(decimal.RequireFromString("110.00")))
		assert.True(t, result.Reconciliations[0].AmountCurrency.Equal(decimal.RequireFromString("110.00")))
	})

	t.Run("debit side follows the positive ledger balance", func(t *testing.T) {
		fx := newSettlementFixture(t)
		inv := fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")

		result, err := fx.settle(t, fx.request())
		require.NoError(t, err)

		// customer invoice debits the receivable, inbound payment credits it
		require.Len(t, result.Reconciliations, 1)
		rec := result.Reconciliations[0]
		assert.Equal(t, inv.ID, rec.DebitMoveID)
		assert.Equal(t, result.Payment.ID, rec.CreditMoveID)
	})

	t.Run("vendor settlement flows outbound and debits the payment", func(t *testing.T) {
		fx := newSettlementFixture(t)

		inv, err := ledger.NewInvoice(fx.companyID, "BILL/001", ledger.MoveTypeVendorInvoice,
			fx.partnerID, uuid.Nil, "Vendor B",
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			valueobject.USD, decimal.RequireFromString("70.00"))
		require.NoError(t, err)
		require.NoError(t, inv.Post(decimal.RequireFromString("70.00")))
		fx.invoices[inv.ID] = inv
		fx.lines = append(fx.lines, AllocationLine{
			InvoiceID:         inv.ID,
			InvoiceNumber:     inv.Number,
			InvoiceDate:       inv.InvoiceDate,
			MoveType:          inv.MoveType,
			InvoiceCurrency:   valueobject.USD,
			Residual:          decimal.RequireFromString("70.00"),
			ResidualConverted: decimal.RequireFromString("70.00"),
			AmountToPay:       decimal.RequireFromString("70.00"),
		})

		req := fx.request()
		req.Role = partner.RoleVendor
		result, err := fx.settle(t, req)
		require.NoError(t, err)

		assert.Equal(t, ledger.DirectionOutbound, result.Payment.Direction)
		require.Len(t, result.Reconciliations, 1)
		// outbound payment debits the payable, vendor invoice credits it
		assert.Equal(t, result.Payment.ID, result.Reconciliations[0].DebitMoveID)
		assert.Equal(t, inv.ID, result.Reconciliations[0].CreditMoveID)
	})

	t.Run("default memo names the partner", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")

		result, err := fx.settle(t, fx.request())
		require.NoError(t, err)
		assert.Equal(t, "Batch payment for Customer A", result.Payment.Memo)
	})

	t.Run("explicit memo is preserved", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")

		req := fx.request()
		req.Memo = "April settlement"
		result, err := fx.settle(t, req)
		require.NoError(t, err)
		assert.Equal(t, "April settlement", result.Payment.Memo)
	})

	t.Run("line with no open ledger line is skipped and reported", func(t *testing.T) {
		fx := newSettlementFixture(t)
		fx.addLine(t, "INV/001", valueobject.USD, "100.00", "100.00")
		settled := fx.addLine(t, "INV/002", valueobject.USD, "50.00", "50.00")

		// settle INV/002 out of band so its ledger line is gone
		require.NoError(t, settled.ApplySettlement(decimal.RequireFromString("50.00")))

		result, err := fx.settle(t, fx.request())
		require.NoError(t, err)

		require.Len(t, result.Skipped, 1)
		assert.Equal(t, "INV/002", result.Skipped[0].InvoiceNumber)
		require.Len(t, result.Reconciliations, 1)
		// payment stays open: it was posted for more than was reconciled
		assert.NotNil(t, result.Payment.OpenSettlementLine())
	})
}

func TestSettlementOverAllocationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		fx := newSettlementFixture(t)

		residual := decimal.NewFromFloat(float64(rng.Intn(99900)+100) / 100.0)
		excess := decimal.NewFromFloat(float64(rng.Intn(10000)+1) / 1000000.0)
		amount := residual.Add(excess)

		fx.addLine(t, "INV/RND", valueobject.USD, residual.String(), amount.String())

		_, err := fx.settle(t, fx.request())
		if excess.GreaterThan(ledger.SettlementTolerance) {
			assertDomainErrorCode(t, err, ErrCodeOverAllocation)
		} else {
			require.NoError(t, err)
		}
	}
}
