// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"math/big"

	"github.com/ethereum/go-ethereum/event"
)

// Event is the union of records published by the ledger.
type Event interface {
	eventMark()
}

// BidPlaced a bid was placed or topped up.
type BidPlaced struct {
	Sender Address
	Amount *big.Int
}

// Canceled a bid was canceled and fully refunded.
type Canceled struct {
	Sender Address
	Amount *big.Int
}

// ForceRefunded an over-cap bidder was shrunk down to the cap boundary.
// Sender is whoever drove the force refund, not the affected bidder.
type ForceRefunded struct {
	Sender       Address
	Bidder       Address
	RefundAmount *big.Int
}

// BiddersChecked the verification cursor advanced over [StartIndex, EndIndex).
type BiddersChecked struct {
	Sender     Address
	StartIndex uint64
	EndIndex   uint64
}

// Claimed a verified bid was converted into a staking deposit.
type Claimed struct {
	Sender Address
	Tokens *big.Int
}

// Refunded collateral was released against completed work.
type Refunded struct {
	Sender        Address
	Amount        *big.Int
	CompletedWork *big.Int
}

// DistributionCanceled fairness was unattainable and the whole distribution
// was called off; deposits remain recoverable through CancelBid.
type DistributionCanceled struct {
	Sender Address
}

func (BidPlaced) eventMark()            {}
func (Canceled) eventMark()             {}
func (ForceRefunded) eventMark()        {}
func (BiddersChecked) eventMark()       {}
func (Claimed) eventMark()              {}
func (Refunded) eventMark()             {}
func (DistributionCanceled) eventMark() {}

// SubscribeEvents registers a channel receiving every ledger event. The
// subscription stays valid until Unsubscribe is called.
func (w *WorkLock) SubscribeEvents(ch chan<- Event) event.Subscription {
	return w.feed.Subscribe(ch)
}
