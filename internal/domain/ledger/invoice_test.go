package ledger

import (
	"testing"
	"time"

	"github.com/batchpay/backend/internal/domain/shared"
	"github.com/batchpay/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, moveType MoveType, total string) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(),
		"INV/2026/0001",
		moveType,
		uuid.New(),
		uuid.Nil,
		"Acme Corp",
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		valueobject.USD,
		decimal.RequireFromString(total),
	)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice with residual equal to total", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")

		assert.Equal(t, InvoiceStateDraft, inv.State)
		assert.Equal(t, PaymentStateNotPaid, inv.PaymentState)
		assert.True(t, inv.AmountResidual.Equal(inv.AmountTotal))
		assert.Equal(t, inv.PartnerID, inv.CommercialPartnerID)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", MoveTypeCustomerInvoice,
			uuid.New(), uuid.Nil, "Acme", time.Now(), valueobject.USD,
			decimal.NewFromInt(100))
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_INVOICE_NUMBER", domainErr.Code)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV/1", MoveTypeCustomerInvoice,
			uuid.New(), uuid.Nil, "Acme", time.Now(), valueobject.USD,
			decimal.Zero)
		require.Error(t, err)
	})

	t.Run("keeps explicit commercial partner", func(t *testing.T) {
		commercial := uuid.New()
		inv, err := NewInvoice(uuid.New(), "INV/1", MoveTypeCustomerInvoice,
			uuid.New(), commercial, "Acme Branch", time.Now(), valueobject.USD,
			decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, commercial, inv.CommercialPartnerID)
	})
}

func TestInvoicePost(t *testing.T) {
	t.Run("customer invoice debits the receivable", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")

		err := inv.Post(decimal.RequireFromString("100.00"))
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatePosted, inv.State)
		require.Len(t, inv.Lines, 2)
		assert.Equal(t, AccountKindReceivable, inv.Lines[0].AccountKind)
		assert.True(t, inv.Lines[0].Balance.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, inv.Lines[1].Balance.Equal(decimal.RequireFromString("-100.00")))

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeInvoicePosted, events[0].EventType())
	})

	t.Run("customer credit note credits the receivable", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerCreditNote, "40.00")

		err := inv.Post(decimal.RequireFromString("40.00"))
		require.NoError(t, err)

		assert.Equal(t, AccountKindReceivable, inv.Lines[0].AccountKind)
		assert.True(t, inv.Lines[0].Balance.IsNegative())
	})

	t.Run("vendor invoice credits the payable", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeVendorInvoice, "75.00")

		err := inv.Post(decimal.RequireFromString("75.00"))
		require.NoError(t, err)

		assert.Equal(t, AccountKindPayable, inv.Lines[0].AccountKind)
		assert.True(t, inv.Lines[0].Balance.IsNegative())
	})

	t.Run("vendor credit note debits the payable", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeVendorCreditNote, "25.00")

		err := inv.Post(decimal.RequireFromString("25.00"))
		require.NoError(t, err)

		assert.Equal(t, AccountKindPayable, inv.Lines[0].AccountKind)
		assert.True(t, inv.Lines[0].Balance.IsPositive())
	})

	t.Run("cannot post twice", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		err := inv.Post(decimal.NewFromInt(100))
		require.Error(t, err)
	})
}

func TestInvoiceApplySettlement(t *testing.T) {
	t.Run("partial settlement flips to PARTIAL", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		err := inv.ApplySettlement(decimal.RequireFromString("40.00"))
		require.NoError(t, err)

		assert.Equal(t, PaymentStatePartial, inv.PaymentState)
		assert.True(t, inv.AmountResidual.Equal(decimal.RequireFromString("60.00")))
		assert.True(t, inv.IsOpen())
	})

	t.Run("full settlement flips to PAID and reconciles the line", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		err := inv.ApplySettlement(decimal.RequireFromString("100.00"))
		require.NoError(t, err)

		assert.Equal(t, PaymentStatePaid, inv.PaymentState)
		assert.True(t, inv.AmountResidual.IsZero())
		assert.False(t, inv.IsOpen())
		assert.Nil(t, inv.OpenSettlementLine())

		var paid bool
		for _, e := range inv.GetDomainEvents() {
			if e.EventType() == EventTypeInvoicePaid {
				paid = true
			}
		}
		assert.True(t, paid)
	})

	t.Run("amount within tolerance of residual settles fully", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		err := inv.ApplySettlement(decimal.RequireFromString("99.9999995"))
		require.NoError(t, err)

		assert.Equal(t, PaymentStatePaid, inv.PaymentState)
		assert.True(t, inv.AmountResidual.IsZero())
	})

	t.Run("rejects amount exceeding residual beyond tolerance", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		err := inv.ApplySettlement(decimal.RequireFromString("100.01"))
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "EXCEEDS_RESIDUAL", domainErr.Code)
	})

	t.Run("rejects settlement on draft invoice", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")

		err := inv.ApplySettlement(decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		err := inv.ApplySettlement(decimal.Zero)
		require.Error(t, err)
	})
}

func TestOpenSettlementLine(t *testing.T) {
	t.Run("returns nil for draft invoice", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		assert.Nil(t, inv.OpenSettlementLine())
	})

	t.Run("returns the receivable line after posting", func(t *testing.T) {
		inv := newTestInvoice(t, MoveTypeCustomerInvoice, "100.00")
		require.NoError(t, inv.Post(decimal.NewFromInt(100)))

		line := inv.OpenSettlementLine()
		require.NotNil(t, line)
		assert.Equal(t, AccountKindReceivable, line.AccountKind)
		assert.False(t, line.Reconciled)
	})
}
