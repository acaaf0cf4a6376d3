// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/allocnet/worklock/kv"
)

var (
	slotTotalDeposited = nameToSlot("total-deposited")
	slotSupply         = nameToSlot("token-supply")
	slotNextCheckIndex = nameToSlot("next-check-index")
	slotBidderCount    = nameToSlot("bidder-count")
	slotCanceled       = nameToSlot("canceled")
)

func nameToSlot(name string) []byte {
	sum := blake2b.Sum256([]byte(name))
	return sum[:]
}

func entryKey(addr Address) []byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("work-info"))
	h.Write(addr.Bytes())
	return h.Sum(nil)
}

func indexKey(index uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	h, _ := blake2b.New256(nil)
	h.Write([]byte("bidder-index"))
	h.Write(b[:])
	return h.Sum(nil)
}

// WorkInfo is the persistent per-bidder record.
type WorkInfo struct {
	Deposited    *big.Int // remaining locked collateral
	Claimed      bool
	Index        uint64   // position in the ordered bidder list
	RequiredWork *big.Int // set once at claim time
}

// IsEmpty reports whether the record corresponds to no bid at all.
func (w *WorkInfo) IsEmpty() bool {
	return !w.Claimed && (w.Deposited == nil || w.Deposited.Sign() == 0)
}

func (w *WorkInfo) normalize() {
	if w.Deposited == nil {
		w.Deposited = new(big.Int)
	}
	if w.RequiredWork == nil {
		w.RequiredWork = new(big.Int)
	}
}

// storage is the root store of the ledger, addressed by hashed slot names
// the way built-in contract state is laid out.
type storage struct {
	store kv.GetPutter
}

func newStorage(store kv.GetPutter) *storage {
	return &storage{store: store}
}

// NewStage opens a write overlay. Mutating operations stage every write and
// commit only after all validation and transfers succeed, so a failed call
// leaves the store untouched.
func (s *storage) NewStage() *stage {
	return &stage{store: s.store, dirty: make(map[string][]byte)}
}

type stage struct {
	store kv.GetPutter
	dirty map[string][]byte // staged writes; nil marks deletion
}

func (st *stage) get(key []byte) ([]byte, error) {
	if val, ok := st.dirty[string(key)]; ok {
		return val, nil
	}
	val, err := st.store.Get(key)
	if err != nil {
		if st.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "storage get")
	}
	return val, nil
}

func (st *stage) put(key, val []byte) {
	st.dirty[string(key)] = val
}

func (st *stage) delete(key []byte) {
	st.dirty[string(key)] = nil
}

// Commit writes all staged changes atomically.
func (st *stage) Commit() error {
	batch := st.store.NewBatch()
	for key, val := range st.dirty {
		if val == nil {
			if err := batch.Delete([]byte(key)); err != nil {
				return errors.Wrap(err, "storage commit")
			}
		} else {
			if err := batch.Put([]byte(key), val); err != nil {
				return errors.Wrap(err, "storage commit")
			}
		}
	}
	return errors.Wrap(batch.Write(), "storage commit")
}

//
// typed accessors
//

func (st *stage) GetBigInt(slot []byte) (*big.Int, error) {
	raw, err := st.get(slot)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (st *stage) SetBigInt(slot []byte, val *big.Int) {
	st.put(slot, val.Bytes())
}

func (st *stage) GetUint64(slot []byte) (uint64, error) {
	val, err := st.GetBigInt(slot)
	if err != nil {
		return 0, err
	}
	return val.Uint64(), nil
}

func (st *stage) SetUint64(slot []byte, val uint64) {
	st.SetBigInt(slot, new(big.Int).SetUint64(val))
}

func (st *stage) GetBool(slot []byte) (bool, error) {
	raw, err := st.get(slot)
	if err != nil {
		return false, err
	}
	return len(raw) == 1 && raw[0] == 1, nil
}

func (st *stage) SetBool(slot []byte, val bool) {
	if val {
		st.put(slot, []byte{1})
	} else {
		st.delete(slot)
	}
}

func (st *stage) GetEntry(addr Address) (*WorkInfo, error) {
	raw, err := st.get(entryKey(addr))
	if err != nil {
		return nil, err
	}
	entry := &WorkInfo{}
	if len(raw) > 0 {
		if err := rlp.DecodeBytes(raw, entry); err != nil {
			return nil, errors.Wrap(err, "decode work info")
		}
	}
	entry.normalize()
	return entry, nil
}

func (st *stage) SetEntry(addr Address, entry *WorkInfo) error {
	entry.normalize()
	raw, err := rlp.EncodeToBytes(entry)
	if err != nil {
		return errors.Wrap(err, "encode work info")
	}
	st.put(entryKey(addr), raw)
	return nil
}

func (st *stage) DeleteEntry(addr Address) {
	st.delete(entryKey(addr))
}

func (st *stage) GetBidderAt(index uint64) (Address, error) {
	raw, err := st.get(indexKey(index))
	if err != nil {
		return Address{}, err
	}
	return BytesToAddress(raw), nil
}

func (st *stage) SetBidderAt(index uint64, addr Address) {
	st.put(indexKey(index), addr.Bytes())
}

func (st *stage) DeleteBidderAt(index uint64) {
	st.delete(indexKey(index))
}
