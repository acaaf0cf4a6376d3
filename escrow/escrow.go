// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow holds the stake positions claimed allocations convert into
// and the running tally of work completed against them. The work tally is fed
// by an external measurement pipeline through ReportWork; the ledger only
// ever reads it.
package escrow

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/log"
	"github.com/allocnet/worklock/worklock"
)

var logger = log.WithContext("pkg", "escrow")

type stakeRecord struct {
	Tokens        *big.Int
	Periods       uint32
	CompletedWork *big.Int
}

func (r *stakeRecord) normalize() {
	if r.Tokens == nil {
		r.Tokens = new(big.Int)
	}
	if r.CompletedWork == nil {
		r.CompletedWork = new(big.Int)
	}
}

// Escrow is a kv backed staking escrow, safe for concurrent use.
type Escrow struct {
	mu    sync.Mutex
	store kv.GetPutter
}

func New(store kv.GetPutter) *Escrow {
	return &Escrow{store: store}
}

func stakeKey(addr worklock.Address) []byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("stake"))
	h.Write(addr.Bytes())
	return h.Sum(nil)
}

func (e *Escrow) getRecord(addr worklock.Address) (*stakeRecord, error) {
	raw, err := e.store.Get(stakeKey(addr))
	if err != nil {
		if e.store.IsNotFound(err) {
			record := &stakeRecord{}
			record.normalize()
			return record, nil
		}
		return nil, errors.Wrap(err, "escrow get")
	}
	record := &stakeRecord{}
	if err := rlp.DecodeBytes(raw, record); err != nil {
		return nil, errors.Wrap(err, "decode stake record")
	}
	record.normalize()
	return record, nil
}

func (e *Escrow) setRecord(addr worklock.Address, record *stakeRecord) error {
	record.normalize()
	raw, err := rlp.EncodeToBytes(record)
	if err != nil {
		return errors.Wrap(err, "encode stake record")
	}
	return errors.Wrap(e.store.Put(stakeKey(addr), raw), "escrow put")
}

// DepositOnBehalf opens a stake position for addr. An address holds at most
// one active position, so a second deposit fails.
func (e *Escrow) DepositOnBehalf(addr worklock.Address, tokens *big.Int, periods uint32) error {
	if tokens == nil || tokens.Sign() <= 0 {
		return errors.New("stake must be positive")
	}
	if periods == 0 {
		return errors.New("periods must be positive")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.getRecord(addr)
	if err != nil {
		return err
	}
	if record.Tokens.Sign() != 0 {
		return errors.Errorf("%v already has an active stake position", addr)
	}
	record.Tokens = new(big.Int).Set(tokens)
	record.Periods = periods
	if err := e.setRecord(addr, record); err != nil {
		return err
	}
	logger.Info("stake deposited", "addr", addr, "tokens", tokens, "periods", periods)
	return nil
}

// ReportWork adds externally measured work to the account's tally.
func (e *Escrow) ReportWork(addr worklock.Address, work *big.Int) error {
	if work == nil || work.Sign() <= 0 {
		return errors.New("work must be positive")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.getRecord(addr)
	if err != nil {
		return err
	}
	if record.Tokens.Sign() == 0 {
		return errors.Errorf("no stake position for %v", addr)
	}
	record.CompletedWork = new(big.Int).Add(record.CompletedWork, work)
	if err := e.setRecord(addr, record); err != nil {
		return err
	}
	logger.Debug("work reported", "addr", addr, "work", work, "completed", record.CompletedWork)
	return nil
}

// CompletedWork returns the account's work tally.
func (e *Escrow) CompletedWork(addr worklock.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.getRecord(addr)
	if err != nil {
		return nil, err
	}
	return record.CompletedWork, nil
}

// StakeOf returns the staked tokens of the account.
func (e *Escrow) StakeOf(addr worklock.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.getRecord(addr)
	if err != nil {
		return nil, err
	}
	return record.Tokens, nil
}
