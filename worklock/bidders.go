// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import "github.com/pkg/errors"

// bidderList is the ordered registry of active bidders, stored as a dense
// index -> address mapping plus a count. Removal swaps the last element into
// the vacated position and truncates, keeping every operation O(1).
type bidderList struct {
	st *stage
}

func (l bidderList) Count() (uint64, error) {
	return l.st.GetUint64(slotBidderCount)
}

// Append registers a new bidder at the tail and returns its index.
func (l bidderList) Append(addr Address) (uint64, error) {
	count, err := l.Count()
	if err != nil {
		return 0, err
	}
	l.st.SetBidderAt(count, addr)
	l.st.SetUint64(slotBidderCount, count+1)
	return count, nil
}

// Remove drops the bidder occupying entry.Index. The last bidder in the list
// is moved into the hole and its own entry's Index is rewritten to match.
func (l bidderList) Remove(addr Address, entry *WorkInfo) error {
	count, err := l.Count()
	if err != nil {
		return err
	}
	if count == 0 || entry.Index >= count {
		return errors.New("bidder list: index out of range")
	}
	last := count - 1
	if entry.Index != last {
		moved, err := l.st.GetBidderAt(last)
		if err != nil {
			return err
		}
		movedEntry, err := l.st.GetEntry(moved)
		if err != nil {
			return err
		}
		movedEntry.Index = entry.Index
		if err := l.st.SetEntry(moved, movedEntry); err != nil {
			return err
		}
		l.st.SetBidderAt(entry.Index, moved)
	}
	l.st.DeleteBidderAt(last)
	l.st.SetUint64(slotBidderCount, last)
	l.st.DeleteEntry(addr)
	return nil
}
