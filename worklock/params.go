// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"math/big"

	"github.com/pkg/errors"
)

const (
	// SlowingRefund is the denominator of the refund ratio. Work required to
	// unlock collateral scales with SlowingRefund/boostingRefund.
	SlowingRefund = 100

	// CheckBidCost is the budget consumed by the verification scan for each
	// inspected bidder. Callers of VerifyBiddingCorrectness size their budget
	// in these units.
	CheckBidCost = 30000
)

// Params fixes the economics and the phase boundaries of a WorkLock.
// All of it is immutable once the ledger is created.
type Params struct {
	BiddingStart    uint64 // unix seconds, inclusive
	BiddingEnd      uint64 // unix seconds, exclusive for bids
	CancellationEnd uint64 // unix seconds, exclusive for cancellations

	Supply         *big.Int // allocation units distributed among bidders
	MinBid         *big.Int // smallest allowed first bid, in collateral units
	BoostingRefund uint64   // numerator of the refund ratio
	StakingPeriods uint32   // periods passed through to the staking escrow
	MaxPerBidder   *big.Int // fairness cap, in allocation units per bidder
}

// Validate checks internal consistency of the params.
func (p *Params) Validate() error {
	if p.BiddingStart >= p.BiddingEnd {
		return errors.New("bidding must start before it ends")
	}
	if p.BiddingEnd > p.CancellationEnd {
		return errors.New("cancellation window cannot close before bidding ends")
	}
	if p.Supply == nil || p.Supply.Sign() <= 0 {
		return errors.New("supply must be positive")
	}
	if p.MinBid == nil || p.MinBid.Sign() <= 0 {
		return errors.New("min bid must be positive")
	}
	if p.BoostingRefund == 0 {
		return errors.New("boosting refund must be positive")
	}
	if p.StakingPeriods == 0 {
		return errors.New("staking periods must be positive")
	}
	if p.MaxPerBidder == nil || p.MaxPerBidder.Sign() <= 0 {
		return errors.New("max allocation per bidder must be positive")
	}
	return nil
}
