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

func newTestPayment(t *testing.T, direction PaymentDirection, amount string) *Payment {
	t.Helper()
	p, err := NewPayment(
		uuid.New(),
		"PAY/2026/0001",
		direction,
		uuid.New(),
		uuid.New(),
		uuid.New(),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		valueobject.USD,
		decimal.RequireFromString(amount),
		"Batch payment for Acme Corp",
	)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("creates draft payment", func(t *testing.T) {
		p := newTestPayment(t, DirectionInbound, "150.00")

		assert.Equal(t, PaymentLifecycleDraft, p.State)
		assert.Empty(t, p.Lines)
	})

	t.Run("rejects missing payment method", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), "PAY/1", DirectionInbound,
			uuid.New(), uuid.New(), uuid.Nil, time.Now(), valueobject.USD,
			decimal.NewFromInt(10), "")
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "NO_PAYMENT_METHOD", domainErr.Code)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), "PAY/1", DirectionInbound,
			uuid.New(), uuid.New(), uuid.New(), time.Now(), valueobject.USD,
			decimal.NewFromInt(-5), "")
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "NEGATIVE_AMOUNT", domainErr.Code)
	})
}

func TestPaymentPost(t *testing.T) {
	t.Run("inbound payment credits the receivable", func(t *testing.T) {
		p := newTestPayment(t, DirectionInbound, "150.00")

		err := p.Post(decimal.RequireFromString("150.00"))
		require.NoError(t, err)

		assert.Equal(t, PaymentLifecyclePosted, p.State)
		require.Len(t, p.Lines, 2)
		assert.Equal(t, AccountKindReceivable, p.Lines[0].AccountKind)
		assert.True(t, p.Lines[0].Balance.IsNegative())
		assert.Equal(t, AccountKindLiquidity, p.Lines[1].AccountKind)
		assert.True(t, p.Lines[1].Balance.IsPositive())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePaymentPosted, events[0].EventType())
	})

	t.Run("outbound payment debits the payable", func(t *testing.T) {
		p := newTestPayment(t, DirectionOutbound, "80.00")

		err := p.Post(decimal.RequireFromString("80.00"))
		require.NoError(t, err)

		assert.Equal(t, AccountKindPayable, p.Lines[0].AccountKind)
		assert.True(t, p.Lines[0].Balance.IsPositive())
		assert.True(t, p.Lines[1].Balance.IsNegative())
	})

	t.Run("cannot post twice", func(t *testing.T) {
		p := newTestPayment(t, DirectionInbound, "10.00")
		require.NoError(t, p.Post(decimal.NewFromInt(10)))

		err := p.Post(decimal.NewFromInt(10))
		require.Error(t, err)
	})
}

func TestPaymentOpenSettlementLine(t *testing.T) {
	t.Run("returns nil before posting", func(t *testing.T) {
		p := newTestPayment(t, DirectionInbound, "10.00")
		assert.Nil(t, p.OpenSettlementLine())
	})

	t.Run("returns nil once reconciled", func(t *testing.T) {
		p := newTestPayment(t, DirectionInbound, "10.00")
		require.NoError(t, p.Post(decimal.NewFromInt(10)))
		require.NotNil(t, p.OpenSettlementLine())

		p.MarkSettlementReconciled()
		assert.Nil(t, p.OpenSettlementLine())
	})
}

func TestReconciliation(t *testing.T) {
	t.Run("matches a debit line to a credit line", func(t *testing.T) {
		debit := NewMoveLine(AccountKindReceivable, decimal.NewFromInt(100), decimal.NewFromInt(100))
		credit := NewMoveLine(AccountKindReceivable, decimal.NewFromInt(-100), decimal.NewFromInt(-100))

		rec, err := NewReconciliation(uuid.New(), &debit, &credit,
			uuid.New(), uuid.New(), decimal.NewFromInt(100),
			decimal.NewFromInt(100), valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, debit.ID, rec.DebitLineID)
		assert.Equal(t, credit.ID, rec.CreditLineID)
		assert.True(t, rec.Amount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects swapped lines", func(t *testing.T) {
		debit := NewMoveLine(AccountKindReceivable, decimal.NewFromInt(100), decimal.NewFromInt(100))
		credit := NewMoveLine(AccountKindReceivable, decimal.NewFromInt(-100), decimal.NewFromInt(-100))

		_, err := NewReconciliation(uuid.New(), &credit, &debit,
			uuid.New(), uuid.New(), decimal.NewFromInt(100),
			decimal.NewFromInt(100), valueobject.USD)
		require.Error(t, err)
	})

	t.Run("rejects nil lines", func(t *testing.T) {
		debit := NewMoveLine(AccountKindReceivable, decimal.NewFromInt(100), decimal.NewFromInt(100))

		_, err := NewReconciliation(uuid.New(), &debit, nil,
			uuid.New(), uuid.New(), decimal.NewFromInt(100),
			decimal.NewFromInt(100), valueobject.USD)
		require.Error(t, err)

		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "NO_SETTLEMENT_LINE", domainErr.Code)
	})
}
