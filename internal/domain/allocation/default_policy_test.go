package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultAmountPolicy(t *testing.T) {
	t.Run("resolves full residual policy", func(t *testing.T) {
		policy, err := NewDefaultAmountPolicy(PolicyFullResidual)
		require.NoError(t, err)
		assert.Equal(t, PolicyFullResidual, policy.Name())

		residual := decimal.RequireFromString("42.50")
		assert.True(t, policy.DefaultAmount(residual).Equal(residual))
	})

	t.Run("resolves zero policy", func(t *testing.T) {
		policy, err := NewDefaultAmountPolicy(PolicyZero)
		require.NoError(t, err)
		assert.True(t, policy.DefaultAmount(decimal.RequireFromString("42.50")).IsZero())
	})

	t.Run("empty name falls back to full residual", func(t *testing.T) {
		policy, err := NewDefaultAmountPolicy("")
		require.NoError(t, err)
		assert.Equal(t, PolicyFullResidual, policy.Name())
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := NewDefaultAmountPolicy("half")
		require.Error(t, err)
	})
}
