// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allocnet/worklock/escrow"
	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/vault"
	"github.com/allocnet/worklock/worklock"
)

var bidder = func() worklock.Address {
	var a worklock.Address
	a[worklock.AddressLength-1] = 1
	return a
}()

func newTestServer(t *testing.T) *httptest.Server {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	collateral := vault.New(db)
	wl, err := worklock.New(db, collateral, escrow.New(db),
		worklock.ClockFunc(func() uint64 { return 1500 }),
		worklock.Params{
			BiddingStart:    1000,
			BiddingEnd:      2000,
			CancellationEnd: 3000,
			Supply:          big.NewInt(1_000_000),
			MinBid:          big.NewInt(1),
			BoostingRefund:  50,
			StakingPeriods:  4,
			MaxPerBidder:    big.NewInt(500_000),
		})
	require.NoError(t, err)

	require.NoError(t, collateral.Deposit(bidder, big.NewInt(10)))
	require.NoError(t, wl.Bid(bidder, big.NewInt(4)))

	router := mux.NewRouter()
	New(wl).Mount(router, "/worklock")
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestGetStatus(t *testing.T) {
	srv := newTestServer(t)

	code, body := httpGet(t, srv.URL+"/worklock")
	require.Equal(t, http.StatusOK, code)

	var status Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "1000000", status.Supply)
	assert.Equal(t, "4", status.TotalDeposited)
	assert.Equal(t, uint64(1), status.BidderCount)
	assert.Equal(t, uint64(100), status.SlowingRefund)
	assert.False(t, status.ClaimingAvailable)
	assert.False(t, status.Canceled)
}

func TestGetBidder(t *testing.T) {
	srv := newTestServer(t)

	code, body := httpGet(t, srv.URL+"/worklock/bidders/"+bidder.String())
	require.Equal(t, http.StatusOK, code)

	var got Bidder
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, bidder, got.Address)
	assert.Equal(t, "4", got.Deposited)
	assert.False(t, got.Claimed)
	assert.Nil(t, got.RequiredWork)

	code, _ = httpGet(t, srv.URL+"/worklock/bidders/0x0000000000000000000000000000000000000099")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = httpGet(t, srv.URL+"/worklock/bidders/not-an-address")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetConversion(t *testing.T) {
	srv := newTestServer(t)

	code, body := httpGet(t, srv.URL+"/worklock/conversions?amount=2")
	require.Equal(t, http.StatusOK, code)

	var conv Conversion
	require.NoError(t, json.Unmarshal(body, &conv))
	assert.Equal(t, "2", conv.Amount)
	assert.Equal(t, "500000", conv.Tokens)
	assert.Equal(t, "1000000", conv.Work)

	code, body = httpGet(t, srv.URL+"/worklock/conversions?tokens=500000")
	require.Equal(t, http.StatusOK, code)
	conv = Conversion{}
	require.NoError(t, json.Unmarshal(body, &conv))
	assert.Equal(t, "1000000", conv.Work)
	assert.Empty(t, conv.Amount)

	code, body = httpGet(t, srv.URL+"/worklock/conversions?work=1000000")
	require.Equal(t, http.StatusOK, code)
	conv = Conversion{}
	require.NoError(t, json.Unmarshal(body, &conv))
	assert.Equal(t, "2", conv.Amount)

	code, _ = httpGet(t, srv.URL+"/worklock/conversions")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = httpGet(t, srv.URL+"/worklock/conversions?amount=-1")
	assert.Equal(t, http.StatusBadRequest, code)
}
