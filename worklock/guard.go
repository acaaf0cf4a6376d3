// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"sync/atomic"

	"github.com/allocnet/worklock/worklock/reverts"
)

// reentrancyGuard rejects nested entry into mutating operations. A vault or
// escrow callback that tries to call back into the ledger during a transfer
// fails with ErrReentrancy while the outer call's state stays untouched.
// Entry is claimed with a compare-and-swap, so concurrent callers are
// rejected rather than queued.
type reentrancyGuard struct {
	locked atomic.Bool
}

func (g *reentrancyGuard) Enter() error {
	if !g.locked.CompareAndSwap(false, true) {
		return reverts.ErrReentrancy
	}
	return nil
}

func (g *reentrancyGuard) Leave() {
	g.locked.Store(false)
}
