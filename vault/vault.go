// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault custodies bidder collateral. Each account splits into a free
// balance, funded with Deposit and spendable with Withdraw, and a locked
// balance owned by the ledger through the Collect/Release pair.
package vault

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/log"
	"github.com/allocnet/worklock/worklock"
)

var logger = log.WithContext("pkg", "vault")

// ErrInsufficientBalance a movement was asked for more than the account holds.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Vault is a kv backed collateral store, safe for concurrent use.
type Vault struct {
	mu    sync.Mutex
	store kv.GetPutter
}

func New(store kv.GetPutter) *Vault {
	return &Vault{store: store}
}

func balanceKey(prefix string, addr worklock.Address) []byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(prefix))
	h.Write(addr.Bytes())
	return h.Sum(nil)
}

func (v *Vault) getBalance(key []byte) (*big.Int, error) {
	raw, err := v.store.Get(key)
	if err != nil {
		if v.store.IsNotFound(err) {
			return new(big.Int), nil
		}
		return nil, errors.Wrap(err, "vault get")
	}
	return new(big.Int).SetBytes(raw), nil
}

// move shifts amount between two balance keys atomically.
func (v *Vault) move(fromKey, toKey []byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("amount must be non-negative")
	}
	from, err := v.getBalance(fromKey)
	if err != nil {
		return err
	}
	if from.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "holds %v, asked %v", from, amount)
	}
	to, err := v.getBalance(toKey)
	if err != nil {
		return err
	}
	batch := v.store.NewBatch()
	if err := batch.Put(fromKey, new(big.Int).Sub(from, amount).Bytes()); err != nil {
		return errors.Wrap(err, "vault move")
	}
	if err := batch.Put(toKey, new(big.Int).Add(to, amount).Bytes()); err != nil {
		return errors.Wrap(err, "vault move")
	}
	return errors.Wrap(batch.Write(), "vault move")
}

func (v *Vault) setBalance(key []byte, val *big.Int) error {
	return errors.Wrap(v.store.Put(key, val.Bytes()), "vault put")
}

// Deposit funds the account's free balance.
func (v *Vault) Deposit(addr worklock.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("deposit must be positive")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	key := balanceKey("free", addr)
	bal, err := v.getBalance(key)
	if err != nil {
		return err
	}
	if err := v.setBalance(key, new(big.Int).Add(bal, amount)); err != nil {
		return err
	}
	logger.Debug("deposit", "addr", addr, "amount", amount)
	return nil
}

// Withdraw pays out of the account's free balance.
func (v *Vault) Withdraw(addr worklock.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("withdrawal must be positive")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	key := balanceKey("free", addr)
	bal, err := v.getBalance(key)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "holds %v, asked %v", bal, amount)
	}
	if err := v.setBalance(key, new(big.Int).Sub(bal, amount)); err != nil {
		return err
	}
	logger.Debug("withdraw", "addr", addr, "amount", amount)
	return nil
}

// BalanceOf returns the free balance.
func (v *Vault) BalanceOf(addr worklock.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.getBalance(balanceKey("free", addr))
}

// LockedOf returns the balance held by the ledger.
func (v *Vault) LockedOf(addr worklock.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.getBalance(balanceKey("locked", addr))
}

// Collect moves collateral from the bidder's free balance into the lock.
func (v *Vault) Collect(from worklock.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.move(balanceKey("free", from), balanceKey("locked", from), amount); err != nil {
		return err
	}
	logger.Debug("collect", "addr", from, "amount", amount)
	return nil
}

// Release moves collateral out of the lock back to the bidder.
func (v *Vault) Release(to worklock.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.move(balanceKey("locked", to), balanceKey("free", to), amount); err != nil {
		return err
	}
	logger.Debug("release", "addr", to, "amount", amount)
	return nil
}

// ReleaseBatch unlocks collateral for several accounts through a single write
// batch, so either every member is paid or none is. Addresses must be
// distinct.
func (v *Vault) ReleaseBatch(to []worklock.Address, amounts []*big.Int) error {
	if len(to) != len(amounts) {
		return errors.New("address and amount lists must match")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	batch := v.store.NewBatch()
	for i, addr := range to {
		amount := amounts[i]
		if amount == nil || amount.Sign() < 0 {
			return errors.New("amount must be non-negative")
		}
		lockedKey := balanceKey("locked", addr)
		locked, err := v.getBalance(lockedKey)
		if err != nil {
			return err
		}
		if locked.Cmp(amount) < 0 {
			return errors.Wrapf(ErrInsufficientBalance, "holds %v, asked %v", locked, amount)
		}
		freeKey := balanceKey("free", addr)
		free, err := v.getBalance(freeKey)
		if err != nil {
			return err
		}
		if err := batch.Put(lockedKey, new(big.Int).Sub(locked, amount).Bytes()); err != nil {
			return errors.Wrap(err, "vault release batch")
		}
		if err := batch.Put(freeKey, new(big.Int).Add(free, amount).Bytes()); err != nil {
			return errors.Wrap(err, "vault release batch")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "vault release batch")
	}
	logger.Debug("release batch", "accounts", len(to))
	return nil
}
