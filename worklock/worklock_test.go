// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/worklock/reverts"
)

type manualClock struct {
	now uint64
}

func (c *manualClock) Now() uint64 { return c.now }

type mockVault struct {
	held      map[Address]*big.Int
	total     *big.Int
	onRelease func(to Address, amount *big.Int) error
}

func newMockVault() *mockVault {
	return &mockVault{held: make(map[Address]*big.Int), total: new(big.Int)}
}

func (v *mockVault) balance(addr Address) *big.Int {
	bal, ok := v.held[addr]
	if !ok {
		bal = new(big.Int)
		v.held[addr] = bal
	}
	return bal
}

func (v *mockVault) Collect(from Address, amount *big.Int) error {
	v.balance(from).Add(v.balance(from), amount)
	v.total.Add(v.total, amount)
	return nil
}

func (v *mockVault) Release(to Address, amount *big.Int) error {
	if v.onRelease != nil {
		if err := v.onRelease(to, amount); err != nil {
			return err
		}
	}
	bal := v.balance(to)
	if bal.Cmp(amount) < 0 {
		return errors.Errorf("vault underflow for %v: holds %v, asked %v", to, bal, amount)
	}
	bal.Sub(bal, amount)
	v.total.Sub(v.total, amount)
	return nil
}

func (v *mockVault) ReleaseBatch(to []Address, amounts []*big.Int) error {
	// validate the whole batch before touching any balance
	for i, addr := range to {
		if v.onRelease != nil {
			if err := v.onRelease(addr, amounts[i]); err != nil {
				return err
			}
		}
		if v.balance(addr).Cmp(amounts[i]) < 0 {
			return errors.Errorf("vault underflow for %v: holds %v, asked %v", addr, v.balance(addr), amounts[i])
		}
	}
	for i, addr := range to {
		v.balance(addr).Sub(v.balance(addr), amounts[i])
		v.total.Sub(v.total, amounts[i])
	}
	return nil
}

type mockEscrow struct {
	deposits map[Address]*big.Int
	periods  map[Address]uint32
	work     map[Address]*big.Int
}

func newMockEscrow() *mockEscrow {
	return &mockEscrow{
		deposits: make(map[Address]*big.Int),
		periods:  make(map[Address]uint32),
		work:     make(map[Address]*big.Int),
	}
}

func (e *mockEscrow) DepositOnBehalf(addr Address, tokens *big.Int, periods uint32) error {
	if _, ok := e.deposits[addr]; ok {
		return errors.New("duplicate escrow deposit")
	}
	e.deposits[addr] = new(big.Int).Set(tokens)
	e.periods[addr] = periods
	return nil
}

func (e *mockEscrow) CompletedWork(addr Address) (*big.Int, error) {
	if work, ok := e.work[addr]; ok {
		return new(big.Int).Set(work), nil
	}
	return new(big.Int), nil
}

func (e *mockEscrow) setWork(addr Address, work int64) {
	e.work[addr] = big.NewInt(work)
}

type testEnv struct {
	t      *testing.T
	w      *WorkLock
	db     *kv.LevelDB
	vault  *mockVault
	escrow *mockEscrow
	clock  *manualClock
	params Params
}

func defaultParams() Params {
	return Params{
		BiddingStart:    1000,
		BiddingEnd:      2000,
		CancellationEnd: 3000,
		Supply:          big.NewInt(1_000_000),
		MinBid:          big.NewInt(1),
		BoostingRefund:  50,
		StakingPeriods:  4,
		MaxPerBidder:    big.NewInt(500_000),
	}
}

func newTestEnv(t *testing.T, params Params) *testEnv {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	vault := newMockVault()
	escrow := newMockEscrow()
	clock := &manualClock{now: params.BiddingStart}
	w, err := New(db, vault, escrow, clock, params)
	require.NoError(t, err)
	return &testEnv{t: t, w: w, db: db, vault: vault, escrow: escrow, clock: clock, params: params}
}

func addr(b byte) Address {
	var a Address
	a[AddressLength-1] = b
	return a
}

func assertBig(t *testing.T, expected int64, actual *big.Int, msgAndArgs ...any) {
	t.Helper()
	require.NotNil(t, actual)
	assert.Zero(t, actual.Cmp(big.NewInt(expected)), msgAndArgs...)
}

func TestBidPhases(t *testing.T) {
	params := defaultParams()
	params.MinBid = big.NewInt(10)
	env := newTestEnv(t, params)
	bidder := addr(1)

	env.clock.now = params.BiddingStart - 1
	assert.ErrorIs(t, env.w.Bid(bidder, big.NewInt(10)), reverts.ErrPhaseViolation)

	env.clock.now = params.BiddingStart
	assert.ErrorIs(t, env.w.Bid(bidder, big.NewInt(5)), reverts.ErrBelowMinimum)
	assert.ErrorIs(t, env.w.Bid(bidder, new(big.Int)), reverts.ErrBelowMinimum)
	require.NoError(t, env.w.Bid(bidder, big.NewInt(10)))

	// top-ups have no minimum
	require.NoError(t, env.w.Bid(bidder, big.NewInt(1)))

	env.clock.now = params.BiddingEnd
	assert.ErrorIs(t, env.w.Bid(bidder, big.NewInt(10)), reverts.ErrPhaseViolation)

	entry, err := env.w.EntryOf(bidder)
	require.NoError(t, err)
	assertBig(t, 11, entry.Deposited)
}

func TestWorkLockLifecycle(t *testing.T) {
	env := newTestEnv(t, defaultParams())
	a, b, c, d := addr(1), addr(2), addr(3), addr(4)

	// bidding
	require.NoError(t, env.w.Bid(a, big.NewInt(4)))
	require.NoError(t, env.w.Bid(a, big.NewInt(4)))
	require.NoError(t, env.w.Bid(b, big.NewInt(1)))
	require.NoError(t, env.w.Bid(c, big.NewInt(1)))
	require.NoError(t, env.w.Bid(d, big.NewInt(1)))

	count, err := env.w.BidderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
	total, err := env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 11, total)

	entry, err := env.w.EntryOf(a)
	require.NoError(t, err)
	assertBig(t, 8, entry.Deposited)
	assert.Equal(t, uint64(0), entry.Index)
	assert.False(t, entry.Claimed)

	// post-bidding operations stay locked out
	_, err = env.w.VerifyBiddingCorrectness(a, 90_000)
	assert.ErrorIs(t, err, reverts.ErrPhaseViolation)
	assert.ErrorIs(t, env.w.ForceRefund(a, []Address{a}), reverts.ErrPhaseViolation)
	_, err = env.w.Claim(a)
	assert.ErrorIs(t, err, reverts.ErrPhaseViolation)

	// cancellation: the last bidder is swapped into the vacated slot
	env.clock.now = 1500
	require.NoError(t, env.w.CancelBid(c))
	moved, err := env.w.BidderAt(2)
	require.NoError(t, err)
	assert.Equal(t, d, moved)
	entry, err = env.w.EntryOf(d)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), entry.Index)

	// a canceled bidder may come back with a fresh entry at the tail
	env.clock.now = 1600
	require.NoError(t, env.w.Bid(c, big.NewInt(1)))
	entry, err = env.w.EntryOf(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), entry.Index)

	env.clock.now = 2500
	require.NoError(t, env.w.CancelBid(c))
	assert.ErrorIs(t, env.w.CancelBid(c), reverts.ErrNotFound)

	count, err = env.w.BidderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
	total, err = env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 10, total)
	assertBig(t, 0, env.vault.balance(c))

	// bidding over, cancellation over
	env.clock.now = 3000
	assert.ErrorIs(t, env.w.Bid(a, big.NewInt(1)), reverts.ErrPhaseViolation)
	assert.ErrorIs(t, env.w.CancelBid(a), reverts.ErrPhaseViolation)

	available, err := env.w.IsClaimingAvailable()
	require.NoError(t, err)
	assert.False(t, available)

	// a holds 8 of 10, i.e. 800k allocation units over the 500k cap
	_, err = env.w.VerifyBiddingCorrectness(b, 90_000)
	assert.ErrorIs(t, err, reverts.ErrUnfairBid)
	next, err := env.w.NextCheckIndex()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)

	// shrink a to the cap: target == cap*(10-8)/(1M/500k... ) == 2
	require.NoError(t, env.w.ForceRefund(b, []Address{a}))
	entry, err = env.w.EntryOf(a)
	require.NoError(t, err)
	assertBig(t, 2, entry.Deposited)
	total, err = env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 4, total)
	assertBig(t, 2, env.vault.balance(a))

	tokens, err := env.w.ConvertAmountToTokens(big.NewInt(2))
	require.NoError(t, err)
	assertBig(t, 500_000, tokens)

	// exactly at the cap is fair, a second force refund has nothing to shrink
	assert.ErrorIs(t, env.w.ForceRefund(b, []Address{a}), reverts.ErrInvalidBatch)

	// verification: budget is spent per inspected bidder
	_, err = env.w.VerifyBiddingCorrectness(b, 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidBudget)

	next, err = env.w.VerifyBiddingCorrectness(b, CheckBidCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	// too small for a single check: silent no-op
	next, err = env.w.VerifyBiddingCorrectness(b, CheckBidCost-1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	next, err = env.w.VerifyBiddingCorrectness(b, 10*CheckBidCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)

	_, err = env.w.VerifyBiddingCorrectness(b, CheckBidCost)
	assert.ErrorIs(t, err, reverts.ErrPhaseViolation)
	assert.ErrorIs(t, env.w.ForceRefund(b, []Address{a}), reverts.ErrPhaseViolation)

	available, err = env.w.IsClaimingAvailable()
	require.NoError(t, err)
	assert.True(t, available)

	// claims distribute the whole supply
	tokens, err = env.w.Claim(a)
	require.NoError(t, err)
	assertBig(t, 500_000, tokens)
	assertBig(t, 500_000, env.escrow.deposits[a])
	assert.Equal(t, uint32(4), env.escrow.periods[a])

	entry, err = env.w.EntryOf(a)
	require.NoError(t, err)
	assert.True(t, entry.Claimed)
	assertBig(t, 1_000_000, entry.RequiredWork)

	_, err = env.w.Claim(a)
	assert.ErrorIs(t, err, reverts.ErrAlreadyClaimed)
	_, err = env.w.Refund(b)
	assert.ErrorIs(t, err, reverts.ErrNotClaimed)

	tokens, err = env.w.Claim(b)
	require.NoError(t, err)
	assertBig(t, 250_000, tokens)
	tokens, err = env.w.Claim(d)
	require.NoError(t, err)
	assertBig(t, 250_000, tokens)

	claimed := new(big.Int)
	for _, deposit := range env.escrow.deposits {
		claimed.Add(claimed, deposit)
	}
	assertBig(t, 1_000_000, claimed, "claims must distribute exactly the supply")

	// claims do not reduce the conversion base
	total, err = env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 4, total)

	// refunds track completed work
	refund, err := env.w.Refund(a)
	require.NoError(t, err)
	assertBig(t, 0, refund)

	env.escrow.setWork(a, 500_000)
	remaining, err := env.w.RemainingWork(a)
	require.NoError(t, err)
	assertBig(t, 500_000, remaining)
	avail, err := env.w.AvailableRefund(a)
	require.NoError(t, err)
	assertBig(t, 1, avail)

	refund, err = env.w.Refund(a)
	require.NoError(t, err)
	assertBig(t, 1, refund)
	assertBig(t, 3, env.vault.balance(a))

	// same completed work again: nothing more to release
	refund, err = env.w.Refund(a)
	require.NoError(t, err)
	assertBig(t, 0, refund)

	env.escrow.setWork(a, 1_000_000)
	refund, err = env.w.Refund(a)
	require.NoError(t, err)
	assertBig(t, 1, refund)
	entry, err = env.w.EntryOf(a)
	require.NoError(t, err)
	assertBig(t, 0, entry.Deposited)

	// fully refunded: further calls are no-ops
	refund, err = env.w.Refund(a)
	require.NoError(t, err)
	assertBig(t, 0, refund)

	// overshooting work never releases more than the deposit
	env.escrow.setWork(b, 2_000_000)
	refund, err = env.w.Refund(b)
	require.NoError(t, err)
	assertBig(t, 1, refund)

	// what the vault still holds is exactly d's untouched deposit
	assertBig(t, 1, env.vault.total)
}

func TestForceRefundBatch(t *testing.T) {
	params := defaultParams()
	params.MaxPerBidder = big.NewInt(300_000)
	env := newTestEnv(t, params)

	small := []Address{addr(3), addr(4), addr(5), addr(6), addr(7)}
	whaleA, whaleB := addr(1), addr(2)

	require.NoError(t, env.w.Bid(small[0], big.NewInt(1)))
	require.NoError(t, env.w.Bid(whaleA, big.NewInt(8)))
	require.NoError(t, env.w.Bid(whaleB, big.NewInt(7)))
	for _, s := range small[1:] {
		require.NoError(t, env.w.Bid(s, big.NewInt(1)))
	}
	env.clock.now = params.CancellationEnd

	// malformed batches
	assert.ErrorIs(t, env.w.ForceRefund(whaleA, nil), reverts.ErrInvalidBatch)
	assert.ErrorIs(t, env.w.ForceRefund(whaleA, []Address{whaleB, whaleA}), reverts.ErrInvalidBatch)
	assert.ErrorIs(t, env.w.ForceRefund(whaleA, []Address{whaleA, whaleA}), reverts.ErrInvalidBatch)
	assert.ErrorIs(t, env.w.ForceRefund(whaleA, []Address{addr(9)}), reverts.ErrInvalidBatch)
	assert.ErrorIs(t, env.w.ForceRefund(whaleA, []Address{whaleA, small[0]}), reverts.ErrInvalidBatch)

	// partial verification progress is discarded by a force refund
	next, err := env.w.VerifyBiddingCorrectness(whaleA, CheckBidCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)

	// both whales reduced to target == 300k*(20-15)/(1M-600k) == 3
	require.NoError(t, env.w.ForceRefund(small[0], []Address{whaleA, whaleB}))
	for _, whale := range []Address{whaleA, whaleB} {
		entry, err := env.w.EntryOf(whale)
		require.NoError(t, err)
		assertBig(t, 3, entry.Deposited)
	}
	assertBig(t, 5, env.vault.balance(whaleA))
	assertBig(t, 4, env.vault.balance(whaleB))
	total, err := env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 11, total)

	next, err = env.w.NextCheckIndex()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next, "force refund must restart the fairness scan")

	// now the whole ledger verifies under the cap
	next, err = env.w.VerifyBiddingCorrectness(small[0], 7*CheckBidCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), next)

	claimed := new(big.Int)
	for _, bidder := range append([]Address{whaleA, whaleB}, small...) {
		tokens, err := env.w.Claim(bidder)
		require.NoError(t, err)
		assert.True(t, tokens.Cmp(params.MaxPerBidder) <= 0)
		claimed.Add(claimed, tokens)
	}
	assert.True(t, claimed.Cmp(params.Supply) <= 0, "claims exceed the supply: %v", claimed)
}

func TestForceRefundPayoutAtomicity(t *testing.T) {
	params := defaultParams()
	params.MaxPerBidder = big.NewInt(300_000)
	env := newTestEnv(t, params)

	whaleA, whaleB := addr(1), addr(2)
	require.NoError(t, env.w.Bid(whaleA, big.NewInt(8)))
	require.NoError(t, env.w.Bid(whaleB, big.NewInt(7)))
	for i := byte(3); i <= 7; i++ {
		require.NoError(t, env.w.Bid(addr(i), big.NewInt(1)))
	}
	env.clock.now = params.CancellationEnd

	// the vault refuses the second whale: neither whale may be paid and the
	// ledger must keep the full deposits
	env.vault.onRelease = func(to Address, _ *big.Int) error {
		if to == whaleB {
			return errors.New("transfer refused")
		}
		return nil
	}
	err := env.w.ForceRefund(whaleA, []Address{whaleA, whaleB})
	require.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))

	entry, err := env.w.EntryOf(whaleA)
	require.NoError(t, err)
	assertBig(t, 8, entry.Deposited)
	total, err := env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 20, total)
	assertBig(t, 8, env.vault.balance(whaleA))
	assertBig(t, 7, env.vault.balance(whaleB))
	assertBig(t, 20, env.vault.total)

	// the retry pays each whale exactly once
	env.vault.onRelease = nil
	require.NoError(t, env.w.ForceRefund(whaleA, []Address{whaleA, whaleB}))
	for _, whale := range []Address{whaleA, whaleB} {
		entry, err := env.w.EntryOf(whale)
		require.NoError(t, err)
		assertBig(t, 3, entry.Deposited)
		assertBig(t, 3, env.vault.balance(whale))
	}
	assertBig(t, 11, env.vault.total)
}

func TestClaimZeroAllocation(t *testing.T) {
	params := defaultParams()
	params.Supply = big.NewInt(4)
	params.MaxPerBidder = big.NewInt(2)
	env := newTestEnv(t, params)

	a, b, c, d := addr(1), addr(2), addr(3), addr(4)
	require.NoError(t, env.w.Bid(a, big.NewInt(4)))
	require.NoError(t, env.w.Bid(b, big.NewInt(4)))
	require.NoError(t, env.w.Bid(c, big.NewInt(1)))
	require.NoError(t, env.w.Bid(d, big.NewInt(1)))

	env.clock.now = params.CancellationEnd
	next, err := env.w.VerifyBiddingCorrectness(a, 4*CheckBidCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next)

	// c's 1 of 10 floors to zero allocation units and cannot open a stake
	_, err = env.w.Claim(c)
	assert.ErrorIs(t, err, reverts.ErrBelowMinimum)
	entry, err := env.w.EntryOf(c)
	require.NoError(t, err)
	assert.False(t, entry.Claimed)
	assertBig(t, 1, entry.Deposited)

	tokens, err := env.w.Claim(a)
	require.NoError(t, err)
	assertBig(t, 1, tokens)
}

func TestDistributionCancellation(t *testing.T) {
	params := defaultParams()
	params.MaxPerBidder = big.NewInt(300_000) // needs at least 4 bidders
	env := newTestEnv(t, params)
	a, b := addr(1), addr(2)

	require.NoError(t, env.w.Bid(a, big.NewInt(5)))
	require.NoError(t, env.w.Bid(b, big.NewInt(3)))

	env.clock.now = params.CancellationEnd
	require.NoError(t, env.w.ForceRefund(a, []Address{a}))

	canceled, err := env.w.IsCanceled()
	require.NoError(t, err)
	assert.True(t, canceled)

	// no more progress of any kind
	_, err = env.w.VerifyBiddingCorrectness(a, CheckBidCost)
	assert.ErrorIs(t, err, reverts.ErrPhaseViolation)
	_, err = env.w.Claim(a)
	assert.ErrorIs(t, err, reverts.ErrPhaseViolation)
	assert.ErrorIs(t, env.w.ForceRefund(a, []Address{a}), reverts.ErrPhaseViolation)
	available, err := env.w.IsClaimingAvailable()
	require.NoError(t, err)
	assert.False(t, available)

	// but everyone can pull their deposit back out, at any time
	env.clock.now = params.CancellationEnd + 100_000
	require.NoError(t, env.w.CancelBid(a))
	require.NoError(t, env.w.CancelBid(b))
	assert.ErrorIs(t, env.w.CancelBid(a), reverts.ErrNotFound)

	count, err := env.w.BidderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assertBig(t, 0, env.vault.total)
}

func TestReentrancyRejected(t *testing.T) {
	env := newTestEnv(t, defaultParams())
	a := addr(1)
	require.NoError(t, env.w.Bid(a, big.NewInt(5)))

	env.clock.now = 2500
	var nested []error
	env.vault.onRelease = func(Address, *big.Int) error {
		nested = append(nested,
			env.w.Bid(a, big.NewInt(1)),
			env.w.CancelBid(a),
		)
		_, err := env.w.Claim(a)
		nested = append(nested, err)
		return nil
	}
	require.NoError(t, env.w.CancelBid(a))

	require.Len(t, nested, 3)
	for _, err := range nested {
		assert.ErrorIs(t, err, reverts.ErrReentrancy)
	}
	count, err := env.w.BidderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assertBig(t, 0, env.vault.total)
}

func TestFailedTransferLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t, defaultParams())
	a := addr(1)
	require.NoError(t, env.w.Bid(a, big.NewInt(5)))

	env.clock.now = 2500
	env.vault.onRelease = func(Address, *big.Int) error {
		return errors.New("transfer refused")
	}
	err := env.w.CancelBid(a)
	require.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))

	// the failed call must not have committed anything
	entry, err := env.w.EntryOf(a)
	require.NoError(t, err)
	assertBig(t, 5, entry.Deposited)
	total, err := env.w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 5, total)
	count, err := env.w.BidderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	env.vault.onRelease = nil
	require.NoError(t, env.w.CancelBid(a))
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t, defaultParams())
	a := addr(1)

	ch := make(chan Event, 16)
	sub := env.w.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	require.NoError(t, env.w.Bid(a, big.NewInt(5)))
	env.clock.now = 2500
	require.NoError(t, env.w.CancelBid(a))

	placed := (<-ch).(BidPlaced)
	assert.Equal(t, a, placed.Sender)
	assertBig(t, 5, placed.Amount)

	canceled := (<-ch).(Canceled)
	assert.Equal(t, a, canceled.Sender)
	assertBig(t, 5, canceled.Amount)
}

func TestPersistence(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	params := defaultParams()
	vault := newMockVault()
	escrow := newMockEscrow()
	clock := &manualClock{now: params.BiddingStart}

	w, err := New(db, vault, escrow, clock, params)
	require.NoError(t, err)
	require.NoError(t, w.Bid(addr(1), big.NewInt(7)))

	// reopening over the same store picks the state back up
	w, err = New(db, vault, escrow, clock, params)
	require.NoError(t, err)
	total, err := w.TotalDeposited()
	require.NoError(t, err)
	assertBig(t, 7, total)
	entry, err := w.EntryOf(addr(1))
	require.NoError(t, err)
	assertBig(t, 7, entry.Deposited)

	// but not with a different supply
	params.Supply = big.NewInt(2_000_000)
	_, err = New(db, vault, escrow, clock, params)
	assert.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	params := defaultParams()
	_, err = New(db, nil, newMockEscrow(), nil, params)
	assert.Error(t, err)

	params.BiddingEnd = params.BiddingStart
	_, err = New(db, newMockVault(), newMockEscrow(), nil, params)
	assert.Error(t, err)

	params = defaultParams()
	params.Supply = nil
	_, err = New(db, newMockVault(), newMockEscrow(), nil, params)
	assert.Error(t, err)
}

func TestQueriesOnEmptyLedger(t *testing.T) {
	env := newTestEnv(t, defaultParams())

	_, err := env.w.EntryOf(addr(1))
	assert.ErrorIs(t, err, reverts.ErrNotFound)
	_, err = env.w.BidderAt(0)
	assert.ErrorIs(t, err, reverts.ErrNotFound)
	_, err = env.w.ConvertAmountToTokens(big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrDivisionByZero)
	_, err = env.w.RemainingWork(addr(1))
	assert.ErrorIs(t, err, reverts.ErrNotClaimed)

	available, err := env.w.IsClaimingAvailable()
	require.NoError(t, err)
	assert.False(t, available)
}
