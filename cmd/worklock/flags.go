// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/allocnet/worklock/worklock"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path of the distribution config file",
		Value: "worklock.yaml",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the ledger database",
		Value: defaultDataDir(),
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Usage: "API service listening address",
		Value: "localhost:8791",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Usage: "comma separated list of domains from which to accept cross origin requests",
	}
	apiLoggerFlag = cli.BoolFlag{
		Name:  "api-logger",
		Usage: "log every API request",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity (0=error, 1=warn, 2=info, 3=debug)",
		Value: 2,
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "metrics service listening address",
		Value: "localhost:2112",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "bidder account address",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "collateral amount, in base units",
	}
	workFlag = cli.StringFlag{
		Name:  "work",
		Usage: "completed work, in work units",
	}
	budgetFlag = cli.Uint64Flag{
		Name:  "budget",
		Usage: "verification budget spent per call",
		Value: 100 * worklock.CheckBidCost,
	}
)
