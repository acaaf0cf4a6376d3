// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/worklock"
)

func newTestEscrow(t *testing.T) *Escrow {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func addr(b byte) worklock.Address {
	var a worklock.Address
	a[worklock.AddressLength-1] = b
	return a
}

func TestDepositOnBehalf(t *testing.T) {
	e := newTestEscrow(t)
	staker := addr(1)

	require.NoError(t, e.DepositOnBehalf(staker, big.NewInt(500), 4))
	stake, err := e.StakeOf(staker)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), stake)

	// one active position per address
	assert.Error(t, e.DepositOnBehalf(staker, big.NewInt(100), 2))

	assert.Error(t, e.DepositOnBehalf(addr(2), new(big.Int), 4))
	assert.Error(t, e.DepositOnBehalf(addr(2), big.NewInt(1), 0))
}

func TestReportWork(t *testing.T) {
	e := newTestEscrow(t)
	staker := addr(1)

	// work needs a stake position to land on
	assert.Error(t, e.ReportWork(staker, big.NewInt(10)))

	require.NoError(t, e.DepositOnBehalf(staker, big.NewInt(500), 4))
	work, err := e.CompletedWork(staker)
	require.NoError(t, err)
	assert.Zero(t, work.Sign())

	require.NoError(t, e.ReportWork(staker, big.NewInt(10)))
	require.NoError(t, e.ReportWork(staker, big.NewInt(5)))
	work, err = e.CompletedWork(staker)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(15), work)

	assert.Error(t, e.ReportWork(staker, new(big.Int)))
}

func TestRecordsPersist(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()

	e := New(db)
	require.NoError(t, e.DepositOnBehalf(addr(1), big.NewInt(42), 4))
	require.NoError(t, e.ReportWork(addr(1), big.NewInt(7)))

	e = New(db)
	stake, err := e.StakeOf(addr(1))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), stake)
	work, err := e.CompletedWork(addr(1))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), work)
}
