// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/allocnet/worklock/worklock"
)

// Status is the ledger-wide view.
type Status struct {
	BiddingStart      uint64 `json:"biddingStart"`
	BiddingEnd        uint64 `json:"biddingEnd"`
	CancellationEnd   uint64 `json:"cancellationEnd"`
	Supply            string `json:"supply"`
	MinBid            string `json:"minBid"`
	MaxPerBidder      string `json:"maxPerBidder"`
	BoostingRefund    uint64 `json:"boostingRefund"`
	SlowingRefund     uint64 `json:"slowingRefund"`
	StakingPeriods    uint32 `json:"stakingPeriods"`
	TotalDeposited    string `json:"totalDeposited"`
	BidderCount       uint64 `json:"bidderCount"`
	NextCheckIndex    uint64 `json:"nextCheckIndex"`
	ClaimingAvailable bool   `json:"claimingAvailable"`
	Canceled          bool   `json:"canceled"`
}

// Bidder is the per-bidder view. The work fields only apply once claimed.
type Bidder struct {
	Address         worklock.Address `json:"address"`
	Deposited       string           `json:"deposited"`
	Index           uint64           `json:"index"`
	Claimed         bool             `json:"claimed"`
	RequiredWork    *string          `json:"requiredWork,omitempty"`
	RemainingWork   *string          `json:"remainingWork,omitempty"`
	AvailableRefund *string          `json:"availableRefund,omitempty"`
}

// Conversion previews the curve at the current ratio. Only the axes that
// follow from the queried one are filled in.
type Conversion struct {
	Amount string `json:"amount,omitempty"`
	Tokens string `json:"tokens,omitempty"`
	Work   string `json:"work,omitempty"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func bigStringPtr(v *big.Int) *string {
	s := bigString(v)
	return &s
}
