// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"math/big"

	"github.com/allocnet/worklock/worklock/reverts"
)

// Curve holds the fixed conversion constants. It is pure: every method maps
// non-negative integers to non-negative integers with exact arithmetic, with
// the current total deposited passed in explicitly.
type Curve struct {
	supply         *big.Int
	slowingRefund  *big.Int
	boostingRefund *big.Int
}

func newCurve(supply *big.Int, boostingRefund uint64) *Curve {
	return &Curve{
		supply:         new(big.Int).Set(supply),
		slowingRefund:  big.NewInt(SlowingRefund),
		boostingRefund: new(big.Int).SetUint64(boostingRefund),
	}
}

// divCeil returns ceil(num/den) for positive den.
func divCeil(num, den *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// AmountToTokens converts a deposited collateral amount into allocation units
// at the current deposit ratio, rounding down.
func (c *Curve) AmountToTokens(amount, totalDeposited *big.Int) (*big.Int, error) {
	if totalDeposited.Sign() == 0 {
		return nil, reverts.ErrDivisionByZero
	}
	tokens := new(big.Int).Mul(amount, c.supply)
	return tokens.Div(tokens, totalDeposited), nil
}

// TokensToWork returns the work required before collateral backing the given
// allocation is released. Ceiling rounding biases in favor of the ledger.
func (c *Curve) TokensToWork(tokens *big.Int) *big.Int {
	return divCeil(new(big.Int).Mul(tokens, c.slowingRefund), c.boostingRefund)
}

// AmountToWork composes the deposit ratio and the refund ratio with a single
// ceiling division, so that WorkToAmount(AmountToWork(x)) == x for every
// amount reachable through a claim.
func (c *Curve) AmountToWork(amount, totalDeposited *big.Int) (*big.Int, error) {
	if totalDeposited.Sign() == 0 {
		return nil, reverts.ErrDivisionByZero
	}
	num := new(big.Int).Mul(amount, c.supply)
	num.Mul(num, c.slowingRefund)
	den := new(big.Int).Mul(totalDeposited, c.boostingRefund)
	return divCeil(num, den), nil
}

// WorkToAmount converts completed work back into the collateral amount it
// releases, rounding down.
func (c *Curve) WorkToAmount(work, totalDeposited *big.Int) (*big.Int, error) {
	if c.supply.Sign() == 0 {
		return nil, reverts.ErrDivisionByZero
	}
	num := new(big.Int).Mul(work, totalDeposited)
	num.Mul(num, c.boostingRefund)
	den := new(big.Int).Mul(c.supply, c.slowingRefund)
	return num.Div(num, den), nil
}
