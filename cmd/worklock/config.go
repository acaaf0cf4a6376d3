// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/allocnet/worklock/worklock"
)

// distConfig is the YAML shape of the distribution config file.
type distConfig struct {
	BiddingStart    uint64 `yaml:"biddingStart"`
	BiddingEnd      uint64 `yaml:"biddingEnd"`
	CancellationEnd uint64 `yaml:"cancellationEnd"`
	Supply          string `yaml:"supply"`
	MinBid          string `yaml:"minBid"`
	MaxPerBidder    string `yaml:"maxPerBidder"`
	BoostingRefund  uint64 `yaml:"boostingRefund"`
	StakingPeriods  uint32 `yaml:"stakingPeriods"`
}

func parseBig(name, raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.Errorf("config: %s: invalid number %q", name, raw)
	}
	return v, nil
}

// loadParams reads and validates the distribution config.
func loadParams(path string) (worklock.Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return worklock.Params{}, errors.Wrap(err, "read config")
	}
	var cfg distConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return worklock.Params{}, errors.Wrap(err, "parse config")
	}
	supply, err := parseBig("supply", cfg.Supply)
	if err != nil {
		return worklock.Params{}, err
	}
	minBid, err := parseBig("minBid", cfg.MinBid)
	if err != nil {
		return worklock.Params{}, err
	}
	maxPerBidder, err := parseBig("maxPerBidder", cfg.MaxPerBidder)
	if err != nil {
		return worklock.Params{}, err
	}
	params := worklock.Params{
		BiddingStart:    cfg.BiddingStart,
		BiddingEnd:      cfg.BiddingEnd,
		CancellationEnd: cfg.CancellationEnd,
		Supply:          supply,
		MinBid:          minBid,
		MaxPerBidder:    maxPerBidder,
		BoostingRefund:  cfg.BoostingRefund,
		StakingPeriods:  cfg.StakingPeriods,
	}
	if err := params.Validate(); err != nil {
		return worklock.Params{}, errors.Wrap(err, "config")
	}
	return params, nil
}
