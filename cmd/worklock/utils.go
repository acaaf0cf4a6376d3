// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/allocnet/worklock/kv"
	"github.com/allocnet/worklock/log"
	"github.com/allocnet/worklock/worklock"
)

func fatal(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	var level slog.Level
	switch ctx.GlobalInt(verbosityFlag.Name) {
	case 0:
		level = log.LevelError
	case 1:
		level = log.LevelWarn
	case 2:
		level = log.LevelInfo
	default:
		level = log.LevelDebug
	}
	// logfmt for terminals, JSON when piped into a collector
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetDefault(log.NewWriterHandler(os.Stderr, level))
	} else {
		log.SetDefault(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
}

func homeDir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir, nil
	}
	return "", errors.New("can't figure out home directory")
}

func defaultDataDir() string {
	if home, err := homeDir(); err == nil {
		return filepath.Join(home, ".worklock")
	}
	return ""
}

func openMainDB(ctx *cli.Context) *kv.LevelDB {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		fatal("unable to locate the data directory, use --data-dir")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data directory [%v]: %v", dataDir, err))
	}
	db, err := kv.New(filepath.Join(dataDir, "main.db"), kv.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dataDir, err))
	}
	return db
}

func parseAddressFlag(ctx *cli.Context) (worklock.Address, error) {
	raw := ctx.String(addressFlag.Name)
	if raw == "" {
		return worklock.Address{}, errors.New("--address is required")
	}
	addr, err := worklock.ParseAddress(raw)
	if err != nil {
		return worklock.Address{}, errors.WithMessage(err, "--address")
	}
	return *addr, nil
}

func handleExitSignal() context.Context {
	exitSignalCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return exitSignalCtx
}

// checkClockOffset warns when the host clock drifts away from NTP time, since
// every phase boundary of the ledger is a wall clock comparison.
func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > 10*time.Second || resp.ClockOffset < -10*time.Second {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}
