// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDefault(t *testing.T) {
	assert.Nil(t, HTTPHandler())

	// meters on the noop backend must be callable
	Counter("noop_counter").Add(1)
	Gauge("noop_gauge").Set(5)
	CounterVec("noop_vec", []string{"op"}).AddWithLabel(1, map[string]string{"op": "bid"})
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("bids_total").Add(3)
	Gauge("deposited").Set(42)
	CounterVec("refunds_total", []string{"kind"}).AddWithLabel(2, map[string]string{"kind": "force"})

	// same name returns the same meter
	assert.Equal(t, Counter("bids_total"), Counter("bids_total"))

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "worklock_metrics_bids_total"))
	assert.True(t, strings.Contains(string(body), "worklock_metrics_deposited"))
}

func TestLazyLoad(t *testing.T) {
	lazy := LazyLoadCounter("lazy_counter")
	c1 := lazy()
	c2 := lazy()
	require.Equal(t, c1, c2)
}
