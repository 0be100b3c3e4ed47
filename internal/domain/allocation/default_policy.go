package allocation

import (
	"fmt"

	"github.com/batchpay/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// Policy names accepted by the factory
const (
	PolicyFullResidual = "full_residual"
	PolicyZero         = "zero"
)

// DefaultAmountPolicy decides what amount to pre-fill on a freshly
// loaded allocation line
type DefaultAmountPolicy interface {
	strategy.Strategy
	DefaultAmount(residualConverted decimal.Decimal) decimal.Decimal
}

// FullResidualPolicy pre-fills each line with its full converted
// residual, so confirming without edits settles everything loaded
type FullResidualPolicy struct {
	strategy.BaseStrategy
}

// NewFullResidualPolicy creates the greedy default policy
func NewFullResidualPolicy() *FullResidualPolicy {
	return &FullResidualPolicy{
		BaseStrategy: strategy.NewBaseStrategy(
			PolicyFullResidual,
			strategy.StrategyTypeDefaultAmount,
			"Pre-fill each line with its full converted residual",
		),
	}
}

// DefaultAmount returns the full converted residual
func (p *FullResidualPolicy) DefaultAmount(residualConverted decimal.Decimal) decimal.Decimal {
	return residualConverted
}

// ZeroPolicy pre-fills each line with zero, leaving amounts to be
// entered manually
type ZeroPolicy struct {
	strategy.BaseStrategy
}

// NewZeroPolicy creates the manual-entry default policy
func NewZeroPolicy() *ZeroPolicy {
	return &ZeroPolicy{
		BaseStrategy: strategy.NewBaseStrategy(
			PolicyZero,
			strategy.StrategyTypeDefaultAmount,
			"Pre-fill each line with zero for manual entry",
		),
	}
}

// DefaultAmount always returns zero
func (p *ZeroPolicy) DefaultAmount(_ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// NewDefaultAmountPolicy resolves a policy by its configured name
func NewDefaultAmountPolicy(name string) (DefaultAmountPolicy, error) {
	switch name {
	case PolicyFullResidual, "":
		return NewFullResidualPolicy(), nil
	case PolicyZero:
		return NewZeroPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown default amount policy: %s", name)
	}
}
