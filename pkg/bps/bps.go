// Package bps implements basis-point arithmetic on token amounts.
//
// All math is integer big.Int; floating point drifts at high slippage values
// and token amounts routinely exceed 2^53.
package bps

import (
	"fmt"
	"math/big"
)

const Denominator = 10000

// MinAmountAfterSlippage floors amount by bps basis points:
// amount * (10000 - bps) / 10000 with integer division.
func MinAmountAfterSlippage(amount *big.Int, slippageBps int) (*big.Int, error) {
	if err := Validate(slippageBps); err != nil {
		return nil, err
	}
	out := new(big.Int).Mul(amount, big.NewInt(int64(Denominator-slippageBps)))
	return out.Div(out, big.NewInt(Denominator)), nil
}

// Validate checks a slippage value is within [0, 10000].
func Validate(slippageBps int) error {
	if slippageBps < 0 || slippageBps > Denominator {
		return fmt.Errorf("slippage basis points must be between 0 and %d, got %d", Denominator, slippageBps)
	}
	return nil
}
