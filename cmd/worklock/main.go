// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// worklock runs the WorkLock allocation service and its operator tooling.
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/allocnet/worklock/api"
	"github.com/allocnet/worklock/escrow"
	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/log"
	"github.com/allocnet/worklock/metrics"
	"github.com/allocnet/worklock/vault"
	"github.com/allocnet/worklock/worklock"
	"github.com/allocnet/worklock/worklock/reverts"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "cmd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "WorkLock",
		Usage:     "bid based allocation ledger",
		Copyright: "2026 The WorkLock developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLoggerFlag,
			verbosityFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: runAction,
		Commands: []cli.Command{
			{
				Name:   "status",
				Usage:  "print the ledger state",
				Action: statusAction,
			},
			{
				Name:   "verify",
				Usage:  "drive the fairness scan over the whole bidder list",
				Flags:  []cli.Flag{addressFlag, budgetFlag},
				Action: verifyAction,
			},
			{
				Name:   "fund",
				Usage:  "fund an account's free collateral balance",
				Flags:  []cli.Flag{addressFlag, amountFlag},
				Action: fundAction,
			},
			{
				Name:   "bid",
				Usage:  "place or top up a bid",
				Flags:  []cli.Flag{addressFlag, amountFlag},
				Action: bidAction,
			},
			{
				Name:   "cancel",
				Usage:  "cancel a bid and recover its collateral",
				Flags:  []cli.Flag{addressFlag},
				Action: cancelAction,
			},
			{
				Name:   "claim",
				Usage:  "convert a verified bid into a stake position",
				Flags:  []cli.Flag{addressFlag},
				Action: claimAction,
			},
			{
				Name:   "refund",
				Usage:  "release collateral earned through completed work",
				Flags:  []cli.Flag{addressFlag},
				Action: refundAction,
			},
			{
				Name:   "report-work",
				Usage:  "credit externally measured work to a stake position",
				Flags:  []cli.Flag{addressFlag, workFlag},
				Action: reportWorkAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type stack struct {
	db         *kv.LevelDB
	collateral *vault.Vault
	staking    *escrow.Escrow
	wl         *worklock.WorkLock
}

func openStack(ctx *cli.Context) (*stack, func(), error) {
	params, err := loadParams(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	db := openMainDB(ctx)
	collateral := vault.New(db)
	staking := escrow.New(db)
	wl, err := worklock.New(db, collateral, staking, nil, params)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return &stack{db, collateral, staking, wl}, func() { db.Close() }, nil
}

func runAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()
	initLogger(ctx)

	s, closeDB, err := openStack(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); closeDB() }()

	checkClockOffset()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		logger.Info("metrics server started", "url", url)
		defer closeMetrics()
	}

	handler := api.New(s.wl, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(apiLoggerFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	url, closeAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return errors.Wrap(err, "start API server")
	}
	defer func() { logger.Info("stopping API server..."); closeAPI() }()

	params := s.wl.Params()
	fmt.Printf(`Starting %v
    Supply        [ %v allocation units ]
    Bidding       [ %v to %v ]
    Cancellation  [ until %v ]
    API portal    [ %v ]
`, ctx.App.Name, params.Supply, params.BiddingStart, params.BiddingEnd, params.CancellationEnd, url)

	<-handleExitSignal().Done()
	return nil
}

func statusAction(ctx *cli.Context) error {
	initLogger(ctx)
	s, closeDB, err := openStack(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	total, err := s.wl.TotalDeposited()
	if err != nil {
		return err
	}
	count, err := s.wl.BidderCount()
	if err != nil {
		return err
	}
	next, err := s.wl.NextCheckIndex()
	if err != nil {
		return err
	}
	available, err := s.wl.IsClaimingAvailable()
	if err != nil {
		return err
	}
	canceled, err := s.wl.IsCanceled()
	if err != nil {
		return err
	}
	fmt.Printf(`Total deposited    %v
Bidders            %v
Checked bidders    %v
Claiming available %v
Canceled           %v
`, total, count, next, available, canceled)
	return nil
}

func verifyAction(ctx *cli.Context) error {
	initLogger(ctx)
	s, closeDB, err := openStack(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	var caller worklock.Address
	if ctx.String(addressFlag.Name) != "" {
		if caller, err = parseAddressFlag(ctx); err != nil {
			return err
		}
	}
	budget := ctx.Uint64(budgetFlag.Name)

	count, err := s.wl.BidderCount()
	if err != nil {
		return err
	}
	next, err := s.wl.NextCheckIndex()
	if err != nil {
		return err
	}
	if count > 0 && next == count {
		fmt.Println("ledger already proven fair")
		return nil
	}

	bar := pb.New64(int64(count)).Set64(int64(next)).SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()
	for next < count {
		checked, err := s.wl.VerifyBiddingCorrectness(caller, budget)
		if err != nil {
			return err
		}
		if checked == next {
			return errors.New("--budget too small to check a single bidder")
		}
		next = checked
		bar.Set64(int64(next))
	}
	bar.Finish()
	fmt.Println("ledger proven fair,", count, "bidders checked")
	return nil
}

func fundAction(ctx *cli.Context) error {
	initLogger(ctx)
	return withAccountAmount(ctx, amountFlag, func(s *stack, addr worklock.Address, amount *big.Int) error {
		if err := s.collateral.Deposit(addr, amount); err != nil {
			return err
		}
		balance, err := s.collateral.BalanceOf(addr)
		if err != nil {
			return err
		}
		fmt.Printf("funded %v, free balance %v\n", addr, balance)
		return nil
	})
}

func bidAction(ctx *cli.Context) error {
	initLogger(ctx)
	return withAccountAmount(ctx, amountFlag, func(s *stack, addr worklock.Address, amount *big.Int) error {
		if err := s.wl.Bid(addr, amount); err != nil {
			return err
		}
		entry, err := s.wl.EntryOf(addr)
		if err != nil {
			return err
		}
		fmt.Printf("bid placed, %v now holds %v\n", addr, entry.Deposited)
		return nil
	})
}

func cancelAction(ctx *cli.Context) error {
	initLogger(ctx)
	return withAccount(ctx, func(s *stack, addr worklock.Address) error {
		if err := s.wl.CancelBid(addr); err != nil {
			return err
		}
		fmt.Printf("bid of %v canceled\n", addr)
		return nil
	})
}

func claimAction(ctx *cli.Context) error {
	initLogger(ctx)
	return withAccount(ctx, func(s *stack, addr worklock.Address) error {
		tokens, err := s.wl.Claim(addr)
		if err != nil {
			return err
		}
		fmt.Printf("%v claimed %v allocation units\n", addr, tokens)
		return nil
	})
}

func refundAction(ctx *cli.Context) error {
	initLogger(ctx)
	return withAccount(ctx, func(s *stack, addr worklock.Address) error {
		amount, err := s.wl.Refund(addr)
		if err != nil {
			return err
		}
		fmt.Printf("released %v to %v\n", amount, addr)
		return nil
	})
}

func reportWorkAction(ctx *cli.Context) error {
	initLogger(ctx)
	return withAccountAmount(ctx, workFlag, func(s *stack, addr worklock.Address, work *big.Int) error {
		if err := s.staking.ReportWork(addr, work); err != nil {
			return err
		}
		completed, err := s.staking.CompletedWork(addr)
		if err != nil {
			return err
		}
		fmt.Printf("%v now has %v completed work\n", addr, completed)
		return nil
	})
}

func withAccount(ctx *cli.Context, f func(*stack, worklock.Address) error) error {
	addr, err := parseAddressFlag(ctx)
	if err != nil {
		return err
	}
	s, closeDB, err := openStack(ctx)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := f(s, addr); err != nil {
		if reverts.IsRevertErr(err) {
			return errors.WithMessage(err, "rejected")
		}
		return err
	}
	return nil
}

func withAccountAmount(ctx *cli.Context, flag cli.StringFlag, f func(*stack, worklock.Address, *big.Int) error) error {
	raw := ctx.String(flag.Name)
	if raw == "" {
		return errors.Errorf("--%s is required", flag.Name)
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return errors.Errorf("--%s: invalid number %q", flag.Name, raw)
	}
	return withAccount(ctx, func(s *stack, addr worklock.Address) error {
		return f(s, addr, amount)
	})
}
