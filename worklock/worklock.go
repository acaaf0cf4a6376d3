// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package worklock implements a bid-based allocation ledger. Bidders lock
// collateral during a bidding window, an incremental scan proves nobody holds
// more than the fairness cap, and verified bids convert into staking deposits
// that are paid back as externally measured work completes.
package worklock

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/log"
	"github.com/allocnet/worklock/metrics"
	"github.com/allocnet/worklock/worklock/reverts"
)

var logger = log.WithContext("pkg", "worklock")

var (
	metricBids           = metrics.LazyLoadCounter("bids_placed_total")
	metricCancellations  = metrics.LazyLoadCounter("bids_canceled_total")
	metricForceRefunds   = metrics.LazyLoadCounter("force_refunds_total")
	metricBiddersChecked = metrics.LazyLoadCounter("bidders_checked_total")
	metricClaims         = metrics.LazyLoadCounter("claims_total")
	metricRefunds        = metrics.LazyLoadCounter("refunds_total")
	metricActiveBidders  = metrics.LazyLoadGauge("active_bidders")
)

// Clock supplies the current time in unix seconds. Phase boundaries are
// evaluated against it, so tests can drive the ledger through its lifecycle
// without sleeping.
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() uint64

func (f ClockFunc) Now() uint64 { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(func() uint64 {
	return uint64(time.Now().Unix())
})

// Vault custodies bidder collateral. Collect pulls collateral in when a bid
// is placed and Release pays it back out. Both sit between validation and
// commit, so an error from either aborts the operation with no state change.
// ReleaseBatch pays several bidders in one shot and must be all-or-none: a
// partial payout would desynchronize the vault from the ledger. Addresses in
// a batch are distinct.
type Vault interface {
	Collect(from Address, amount *big.Int) error
	Release(to Address, amount *big.Int) error
	ReleaseBatch(to []Address, amounts []*big.Int) error
}

// StakingEscrow receives claimed allocations and reports work completed
// against them.
type StakingEscrow interface {
	DepositOnBehalf(addr Address, tokens *big.Int, periods uint32) error
	CompletedWork(addr Address) (*big.Int, error)
}

// WorkLock is the ledger facade. All mutating operations are guarded against
// reentrancy and commit atomically: either every effect of a call lands, or
// none does.
type WorkLock struct {
	params  Params
	curve   *Curve
	storage *storage
	guard   reentrancyGuard
	clock   Clock
	vault   Vault
	escrow  StakingEscrow
	feed    event.FeedOf[Event]
}

// New opens a ledger over the given store. The store may carry state from a
// previous run; the recorded supply must then match params.
func New(store kv.GetPutter, vault Vault, escrow StakingEscrow, clock Clock, params Params) (*WorkLock, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}
	if vault == nil || escrow == nil {
		return nil, errors.New("vault and escrow are required")
	}
	if clock == nil {
		clock = SystemClock
	}
	w := &WorkLock{
		params:  params,
		curve:   newCurve(params.Supply, params.BoostingRefund),
		storage: newStorage(store),
		clock:   clock,
		vault:   vault,
		escrow:  escrow,
	}
	st := w.storage.NewStage()
	supply, err := st.GetBigInt(slotSupply)
	if err != nil {
		return nil, err
	}
	if supply.Sign() == 0 {
		st.SetBigInt(slotSupply, params.Supply)
		if err := st.Commit(); err != nil {
			return nil, err
		}
	} else if supply.Cmp(params.Supply) != 0 {
		return nil, errors.Errorf("stored supply %v does not match params supply %v", supply, params.Supply)
	}
	return w, nil
}

// Params returns the immutable ledger configuration.
func (w *WorkLock) Params() Params { return w.params }

//
// operations
//

// Bid locks collateral for the caller. The first bid of a bidder must reach
// MinBid; later bids top the same entry up with no minimum.
func (w *WorkLock) Bid(caller Address, amount *big.Int) error {
	if err := w.guard.Enter(); err != nil {
		return err
	}
	defer w.guard.Leave()

	logger.Debug("bid", "caller", caller, "amount", amount)
	now := w.clock.Now()
	if now < w.params.BiddingStart || now >= w.params.BiddingEnd {
		return errors.Wrap(reverts.ErrPhaseViolation, "bidding window closed")
	}
	st := w.storage.NewStage()
	if err := w.requireNotCanceled(st); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.Wrap(reverts.ErrBelowMinimum, "bid amount must be positive")
	}
	entry, err := st.GetEntry(caller)
	if err != nil {
		return err
	}
	if entry.Claimed {
		return reverts.ErrAlreadyClaimed
	}
	isNew := entry.IsEmpty()
	if isNew && amount.Cmp(w.params.MinBid) < 0 {
		return errors.Wrapf(reverts.ErrBelowMinimum, "first bid must be at least %v", w.params.MinBid)
	}
	total, err := st.GetBigInt(slotTotalDeposited)
	if err != nil {
		return err
	}
	if isNew {
		index, err := bidderList{st}.Append(caller)
		if err != nil {
			return err
		}
		entry.Index = index
	}
	entry.Deposited = new(big.Int).Add(entry.Deposited, amount)
	if err := st.SetEntry(caller, entry); err != nil {
		return err
	}
	st.SetBigInt(slotTotalDeposited, new(big.Int).Add(total, amount))

	if err := w.vault.Collect(caller, amount); err != nil {
		return errors.Wrap(err, "collect collateral")
	}
	if err := st.Commit(); err != nil {
		return err
	}
	if isNew {
		metricActiveBidders().Add(1)
	}
	metricBids().Add(1)
	w.feed.Send(BidPlaced{Sender: caller, Amount: new(big.Int).Set(amount)})
	logger.Info("bid placed", "caller", caller, "amount", amount, "deposited", entry.Deposited)
	return nil
}

// CancelBid withdraws the caller's whole bid. Allowed until the cancellation
// window closes, and at any time after the distribution has been canceled.
func (w *WorkLock) CancelBid(caller Address) error {
	if err := w.guard.Enter(); err != nil {
		return err
	}
	defer w.guard.Leave()

	logger.Debug("cancel bid", "caller", caller)
	st := w.storage.NewStage()
	canceled, err := st.GetBool(slotCanceled)
	if err != nil {
		return err
	}
	now := w.clock.Now()
	if !canceled && (now < w.params.BiddingStart || now >= w.params.CancellationEnd) {
		return errors.Wrap(reverts.ErrPhaseViolation, "cancellation window closed")
	}
	entry, err := st.GetEntry(caller)
	if err != nil {
		return err
	}
	if entry.Claimed {
		return reverts.ErrAlreadyClaimed
	}
	if entry.Deposited.Sign() == 0 {
		return errors.Wrap(reverts.ErrNotFound, "no bid to cancel")
	}
	refund := new(big.Int).Set(entry.Deposited)
	if err := (bidderList{st}).Remove(caller, entry); err != nil {
		return err
	}
	total, err := st.GetBigInt(slotTotalDeposited)
	if err != nil {
		return err
	}
	st.SetBigInt(slotTotalDeposited, new(big.Int).Sub(total, refund))
	// Keep the cursor inside the shrunk list when cancellations run after a
	// distribution cancel.
	count, err := (bidderList{st}).Count()
	if err != nil {
		return err
	}
	next, err := st.GetUint64(slotNextCheckIndex)
	if err != nil {
		return err
	}
	if next > count {
		st.SetUint64(slotNextCheckIndex, count)
	}

	if err := w.vault.Release(caller, refund); err != nil {
		return errors.Wrap(err, "release collateral")
	}
	if err := st.Commit(); err != nil {
		return err
	}
	metricActiveBidders().Add(-1)
	metricCancellations().Add(1)
	w.feed.Send(Canceled{Sender: caller, Amount: refund})
	logger.Info("bid canceled", "caller", caller, "refund", refund)
	return nil
}

// ForceRefund shrinks a batch of over-cap bidders down to a common deposit
// that puts each of them exactly at the fairness cap, refunding the excess.
// The batch must be strictly sorted, every member strictly over the cap, and
// every member must actually shrink; otherwise the whole call fails.
//
// If there are too few bidders for the cap to be satisfiable at all, the
// distribution itself is canceled instead and every deposit becomes
// recoverable through CancelBid.
func (w *WorkLock) ForceRefund(caller Address, batch []Address) error {
	if err := w.guard.Enter(); err != nil {
		return err
	}
	defer w.guard.Leave()

	logger.Debug("force refund", "caller", caller, "batch", len(batch))
	now := w.clock.Now()
	if now < w.params.CancellationEnd {
		return errors.Wrap(reverts.ErrPhaseViolation, "cancellation window still open")
	}
	st := w.storage.NewStage()
	if err := w.requireNotCanceled(st); err != nil {
		return err
	}
	count, err := (bidderList{st}).Count()
	if err != nil {
		return err
	}
	next, err := st.GetUint64(slotNextCheckIndex)
	if err != nil {
		return err
	}
	if count > 0 && next == count {
		return errors.Wrap(reverts.ErrPhaseViolation, "ledger already proven fair")
	}

	// With fewer bidders than ceil(supply/cap) the cap cannot be met no
	// matter how deposits are redistributed.
	minBidders := divCeil(w.params.Supply, w.params.MaxPerBidder)
	if new(big.Int).SetUint64(count).Cmp(minBidders) < 0 {
		st.SetBool(slotCanceled, true)
		if err := st.Commit(); err != nil {
			return err
		}
		w.feed.Send(DistributionCanceled{Sender: caller})
		logger.Warn("distribution canceled, not enough bidders to satisfy the cap",
			"bidders", count, "required", minBidders)
		return nil
	}

	if len(batch) == 0 {
		return errors.Wrap(reverts.ErrInvalidBatch, "empty batch")
	}
	total, err := st.GetBigInt(slotTotalDeposited)
	if err != nil {
		return err
	}
	entries := make([]*WorkInfo, len(batch))
	batchSum := new(big.Int)
	var prev Address
	for i, addr := range batch {
		if i > 0 && addr.Compare(prev) <= 0 {
			return errors.Wrap(reverts.ErrInvalidBatch, "batch must be strictly sorted")
		}
		prev = addr
		entry, err := st.GetEntry(addr)
		if err != nil {
			return err
		}
		if entry.Claimed || entry.Deposited.Sign() == 0 {
			return errors.Wrapf(reverts.ErrInvalidBatch, "bidder %v not eligible", addr)
		}
		tokens, err := w.curve.AmountToTokens(entry.Deposited, total)
		if err != nil {
			return err
		}
		if tokens.Cmp(w.params.MaxPerBidder) <= 0 {
			return errors.Wrapf(reverts.ErrInvalidBatch, "bidder %v not above the cap", addr)
		}
		entries[i] = entry
		batchSum.Add(batchSum, entry.Deposited)
	}

	// Solve for the uniform deposit b' that puts every batch member exactly
	// at the cap against the reduced total:
	//   b' * supply == cap * (total - batchSum + k*b')
	//   b' == cap * (total - batchSum) / (supply - k*cap)
	k := new(big.Int).SetInt64(int64(len(batch)))
	kCap := new(big.Int).Mul(k, w.params.MaxPerBidder)
	den := new(big.Int).Sub(w.params.Supply, kCap)
	if den.Sign() <= 0 {
		return errors.Wrap(reverts.ErrInvalidBatch, "batch too large to fit under the cap")
	}
	rest := new(big.Int).Sub(total, batchSum)
	target := new(big.Int).Mul(w.params.MaxPerBidder, rest)
	target.Div(target, den)
	if target.Sign() <= 0 {
		return errors.Wrap(reverts.ErrInvalidBatch, "no deposit level puts the batch at the cap")
	}

	refunds := make([]*big.Int, len(batch))
	for i, entry := range entries {
		refund := new(big.Int).Sub(entry.Deposited, target)
		if refund.Sign() <= 0 {
			return errors.Wrapf(reverts.ErrInvalidBatch, "bidder %v would not shrink", batch[i])
		}
		refunds[i] = refund
		entry.Deposited = new(big.Int).Set(target)
		if err := st.SetEntry(batch[i], entry); err != nil {
			return err
		}
	}
	newTotal := new(big.Int).Add(rest, new(big.Int).Mul(k, target))
	st.SetBigInt(slotTotalDeposited, newTotal)
	// Entries verified before this call were checked against the old ratio,
	// so the fairness proof starts over.
	st.SetUint64(slotNextCheckIndex, 0)

	if err := w.vault.ReleaseBatch(batch, refunds); err != nil {
		return errors.Wrap(err, "release refunds")
	}
	if err := st.Commit(); err != nil {
		return err
	}
	metricForceRefunds().Add(int64(len(batch)))
	for i, addr := range batch {
		w.feed.Send(ForceRefunded{Sender: caller, Bidder: addr, RefundAmount: refunds[i]})
	}
	logger.Info("force refund applied", "caller", caller, "batch", len(batch), "target", target, "total", newTotal)
	return nil
}

// VerifyBiddingCorrectness advances the fairness scan from the saved cursor,
// spending CheckBidCost out of budget per inspected bidder. It stops when the
// budget runs out or the list ends; a budget too small for a single check
// leaves the ledger untouched. An over-cap bidder fails the call without
// moving the cursor. Returns the new cursor position.
func (w *WorkLock) VerifyBiddingCorrectness(caller Address, budget uint64) (uint64, error) {
	if err := w.guard.Enter(); err != nil {
		return 0, err
	}
	defer w.guard.Leave()

	logger.Debug("verify bidding correctness", "caller", caller, "budget", budget)
	now := w.clock.Now()
	if now < w.params.CancellationEnd {
		return 0, errors.Wrap(reverts.ErrPhaseViolation, "cancellation window still open")
	}
	st := w.storage.NewStage()
	if err := w.requireNotCanceled(st); err != nil {
		return 0, err
	}
	count, err := (bidderList{st}).Count()
	if err != nil {
		return 0, err
	}
	next, err := st.GetUint64(slotNextCheckIndex)
	if err != nil {
		return 0, err
	}
	if next == count {
		return next, errors.Wrap(reverts.ErrPhaseViolation, "ledger already proven fair")
	}
	if budget == 0 {
		return next, reverts.ErrInvalidBudget
	}
	total, err := st.GetBigInt(slotTotalDeposited)
	if err != nil {
		return 0, err
	}

	start := next
	remaining := budget
	for remaining >= CheckBidCost && next < count {
		addr, err := st.GetBidderAt(next)
		if err != nil {
			return 0, err
		}
		entry, err := st.GetEntry(addr)
		if err != nil {
			return 0, err
		}
		tokens, err := w.curve.AmountToTokens(entry.Deposited, total)
		if err != nil {
			return 0, err
		}
		if tokens.Cmp(w.params.MaxPerBidder) > 0 {
			return start, errors.Wrapf(reverts.ErrUnfairBid, "bidder %v holds %v of at most %v", addr, tokens, w.params.MaxPerBidder)
		}
		remaining -= CheckBidCost
		next++
	}
	if next == start {
		return start, nil
	}
	st.SetUint64(slotNextCheckIndex, next)
	if err := st.Commit(); err != nil {
		return 0, err
	}
	metricBiddersChecked().Add(int64(next - start))
	w.feed.Send(BiddersChecked{Sender: caller, StartIndex: start, EndIndex: next})
	logger.Info("bidders checked", "caller", caller, "from", start, "to", next, "of", count)
	return next, nil
}

// Claim converts the caller's verified bid into a staking deposit and pins
// the work required to refund it. Returns the allocated tokens.
func (w *WorkLock) Claim(caller Address) (*big.Int, error) {
	if err := w.guard.Enter(); err != nil {
		return nil, err
	}
	defer w.guard.Leave()

	logger.Debug("claim", "caller", caller)
	st := w.storage.NewStage()
	available, err := w.claimingAvailable(st)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, errors.Wrap(reverts.ErrPhaseViolation, "claiming not yet available")
	}
	entry, err := st.GetEntry(caller)
	if err != nil {
		return nil, err
	}
	if entry.Claimed {
		return nil, reverts.ErrAlreadyClaimed
	}
	if entry.Deposited.Sign() == 0 {
		return nil, errors.Wrap(reverts.ErrNotFound, "nothing to claim")
	}
	total, err := st.GetBigInt(slotTotalDeposited)
	if err != nil {
		return nil, err
	}
	tokens, err := w.curve.AmountToTokens(entry.Deposited, total)
	if err != nil {
		return nil, err
	}
	// A deposit small enough to floor to zero allocation units has nothing to
	// stake; rejecting keeps the entry intact instead of opening a zero stake
	// in the escrow.
	if tokens.Sign() == 0 {
		return nil, errors.Wrap(reverts.ErrBelowMinimum, "deposit maps to zero allocation units")
	}
	requiredWork, err := w.curve.AmountToWork(entry.Deposited, total)
	if err != nil {
		return nil, err
	}
	entry.Claimed = true
	entry.RequiredWork = requiredWork
	if err := st.SetEntry(caller, entry); err != nil {
		return nil, err
	}

	if err := w.escrow.DepositOnBehalf(caller, tokens, w.params.StakingPeriods); err != nil {
		return nil, errors.Wrap(err, "deposit to staking escrow")
	}
	if err := st.Commit(); err != nil {
		return nil, err
	}
	metricClaims().Add(1)
	w.feed.Send(Claimed{Sender: caller, Tokens: tokens})
	logger.Info("claimed", "caller", caller, "tokens", tokens, "requiredWork", requiredWork)
	return tokens, nil
}

// Refund releases the part of the caller's collateral already earned through
// completed work. Calling with no new work completed is a no-op that returns
// zero. Returns the released amount.
func (w *WorkLock) Refund(caller Address) (*big.Int, error) {
	if err := w.guard.Enter(); err != nil {
		return nil, err
	}
	defer w.guard.Leave()

	logger.Debug("refund", "caller", caller)
	st := w.storage.NewStage()
	entry, err := st.GetEntry(caller)
	if err != nil {
		return nil, err
	}
	if !entry.Claimed {
		return nil, reverts.ErrNotClaimed
	}
	if entry.Deposited.Sign() == 0 {
		return new(big.Int), nil
	}
	completed, err := w.escrow.CompletedWork(caller)
	if err != nil {
		return nil, errors.Wrap(err, "query completed work")
	}
	releasable, err := w.releasable(st, entry, completed)
	if err != nil {
		return nil, err
	}
	if releasable.Sign() == 0 {
		return new(big.Int), nil
	}
	entry.Deposited = new(big.Int).Sub(entry.Deposited, releasable)
	if err := st.SetEntry(caller, entry); err != nil {
		return nil, err
	}

	if err := w.vault.Release(caller, releasable); err != nil {
		return nil, errors.Wrap(err, "release collateral")
	}
	if err := st.Commit(); err != nil {
		return nil, err
	}
	metricRefunds().Add(1)
	w.feed.Send(Refunded{Sender: caller, Amount: releasable, CompletedWork: completed})
	logger.Info("refunded", "caller", caller, "amount", releasable, "completedWork", completed)
	return releasable, nil
}

//
// queries
//

// BidderCount returns the number of active (unremoved) bidder entries.
func (w *WorkLock) BidderCount() (uint64, error) {
	return bidderList{w.storage.NewStage()}.Count()
}

// BidderAt returns the bidder occupying the given list index.
func (w *WorkLock) BidderAt(index uint64) (Address, error) {
	st := w.storage.NewStage()
	count, err := (bidderList{st}).Count()
	if err != nil {
		return Address{}, err
	}
	if index >= count {
		return Address{}, errors.Wrap(reverts.ErrNotFound, "bidder index out of range")
	}
	return st.GetBidderAt(index)
}

// EntryOf returns the bidder's record, or ErrNotFound if it never bid or has
// fully exited.
func (w *WorkLock) EntryOf(addr Address) (*WorkInfo, error) {
	entry, err := w.storage.NewStage().GetEntry(addr)
	if err != nil {
		return nil, err
	}
	if entry.IsEmpty() {
		return nil, reverts.ErrNotFound
	}
	return entry, nil
}

// TotalDeposited returns the collateral backing the conversion ratio. Claims
// and work refunds do not reduce it; cancellations and force refunds do.
func (w *WorkLock) TotalDeposited() (*big.Int, error) {
	return w.storage.NewStage().GetBigInt(slotTotalDeposited)
}

// NextCheckIndex returns the fairness scan cursor.
func (w *WorkLock) NextCheckIndex() (uint64, error) {
	return w.storage.NewStage().GetUint64(slotNextCheckIndex)
}

// IsCanceled reports whether the whole distribution has been called off.
func (w *WorkLock) IsCanceled() (bool, error) {
	return w.storage.NewStage().GetBool(slotCanceled)
}

// IsClaimingAvailable reports whether the cancellation window has closed and
// the fairness scan has covered the whole bidder list.
func (w *WorkLock) IsClaimingAvailable() (bool, error) {
	return w.claimingAvailable(w.storage.NewStage())
}

// RemainingWork returns the work still owed before the bidder's collateral is
// fully refundable.
func (w *WorkLock) RemainingWork(addr Address) (*big.Int, error) {
	entry, err := w.storage.NewStage().GetEntry(addr)
	if err != nil {
		return nil, err
	}
	if !entry.Claimed {
		return nil, reverts.ErrNotClaimed
	}
	completed, err := w.escrow.CompletedWork(addr)
	if err != nil {
		return nil, errors.Wrap(err, "query completed work")
	}
	remaining := new(big.Int).Sub(entry.RequiredWork, completed)
	if remaining.Sign() < 0 {
		remaining.SetInt64(0)
	}
	return remaining, nil
}

// AvailableRefund returns what Refund would release right now.
func (w *WorkLock) AvailableRefund(addr Address) (*big.Int, error) {
	st := w.storage.NewStage()
	entry, err := st.GetEntry(addr)
	if err != nil {
		return nil, err
	}
	if !entry.Claimed {
		return nil, reverts.ErrNotClaimed
	}
	if entry.Deposited.Sign() == 0 {
		return new(big.Int), nil
	}
	completed, err := w.escrow.CompletedWork(addr)
	if err != nil {
		return nil, errors.Wrap(err, "query completed work")
	}
	return w.releasable(st, entry, completed)
}

// ConvertAmountToTokens previews the allocation a deposit maps to at the
// current ratio.
func (w *WorkLock) ConvertAmountToTokens(amount *big.Int) (*big.Int, error) {
	total, err := w.TotalDeposited()
	if err != nil {
		return nil, err
	}
	return w.curve.AmountToTokens(amount, total)
}

// ConvertTokensToWork returns the work backing an allocation.
func (w *WorkLock) ConvertTokensToWork(tokens *big.Int) *big.Int {
	return w.curve.TokensToWork(tokens)
}

// ConvertAmountToWork previews the work a deposit would require at the
// current ratio.
func (w *WorkLock) ConvertAmountToWork(amount *big.Int) (*big.Int, error) {
	total, err := w.TotalDeposited()
	if err != nil {
		return nil, err
	}
	return w.curve.AmountToWork(amount, total)
}

// ConvertWorkToAmount previews the collateral an amount of work releases at
// the current ratio.
func (w *WorkLock) ConvertWorkToAmount(work *big.Int) (*big.Int, error) {
	total, err := w.TotalDeposited()
	if err != nil {
		return nil, err
	}
	return w.curve.WorkToAmount(work, total)
}

//
// internals
//

func (w *WorkLock) requireNotCanceled(st *stage) error {
	canceled, err := st.GetBool(slotCanceled)
	if err != nil {
		return err
	}
	if canceled {
		return errors.Wrap(reverts.ErrPhaseViolation, "distribution canceled")
	}
	return nil
}

func (w *WorkLock) claimingAvailable(st *stage) (bool, error) {
	if w.clock.Now() < w.params.CancellationEnd {
		return false, nil
	}
	canceled, err := st.GetBool(slotCanceled)
	if err != nil {
		return false, err
	}
	if canceled {
		return false, nil
	}
	count, err := (bidderList{st}).Count()
	if err != nil {
		return false, err
	}
	next, err := st.GetUint64(slotNextCheckIndex)
	if err != nil {
		return false, err
	}
	return count > 0 && next == count, nil
}

// releasable computes the collateral Refund would release: everything except
// what still backs the outstanding work, clamped to the remaining deposit.
func (w *WorkLock) releasable(st *stage, entry *WorkInfo, completed *big.Int) (*big.Int, error) {
	remaining := new(big.Int).Sub(entry.RequiredWork, completed)
	if remaining.Sign() < 0 {
		remaining.SetInt64(0)
	}
	total, err := st.GetBigInt(slotTotalDeposited)
	if err != nil {
		return nil, err
	}
	locked, err := w.curve.WorkToAmount(remaining, total)
	if err != nil {
		return nil, err
	}
	releasable := new(big.Int).Sub(entry.Deposited, locked)
	if releasable.Sign() < 0 {
		releasable.SetInt64(0)
	}
	if releasable.Cmp(entry.Deposited) > 0 {
		releasable.Set(entry.Deposited)
	}
	return releasable, nil
}
