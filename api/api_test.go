// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allocnet/worklock/escrow"
	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/vault"
	"github.com/allocnet/worklock/worklock"
)

func newTestAPI(t *testing.T, opts Options) *httptest.Server {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wl, err := worklock.New(db, vault.New(db), escrow.New(db), nil, worklock.Params{
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

	srv := httptest.NewServer(New(wl, opts))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestAPI(t, Options{AllowedOrigins: "*", EnableMetrics: true})

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRoutes(t *testing.T) {
	srv := newTestAPI(t, Options{AllowedOrigins: "*"})

	res, err := http.Get(srv.URL + "/worklock")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/nowhere")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
