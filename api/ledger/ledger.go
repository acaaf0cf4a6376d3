// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger exposes the read-only WorkLock endpoints.
package ledger

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/allocnet/worklock/api/utils"
	"github.com/allocnet/worklock/worklock"
	"github.com/allocnet/worklock/worklock/reverts"
)

type Ledger struct {
	wl *worklock.WorkLock
}

func New(wl *worklock.WorkLock) *Ledger {
	return &Ledger{wl}
}

func (l *Ledger) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	params := l.wl.Params()
	total, err := l.wl.TotalDeposited()
	if err != nil {
		return err
	}
	count, err := l.wl.BidderCount()
	if err != nil {
		return err
	}
	next, err := l.wl.NextCheckIndex()
	if err != nil {
		return err
	}
	available, err := l.wl.IsClaimingAvailable()
	if err != nil {
		return err
	}
	canceled, err := l.wl.IsCanceled()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Status{
		BiddingStart:      params.BiddingStart,
		BiddingEnd:        params.BiddingEnd,
		CancellationEnd:   params.CancellationEnd,
		Supply:            bigString(params.Supply),
		MinBid:            bigString(params.MinBid),
		MaxPerBidder:      bigString(params.MaxPerBidder),
		BoostingRefund:    params.BoostingRefund,
		SlowingRefund:     worklock.SlowingRefund,
		StakingPeriods:    params.StakingPeriods,
		TotalDeposited:    bigString(total),
		BidderCount:       count,
		NextCheckIndex:    next,
		ClaimingAvailable: available,
		Canceled:          canceled,
	})
}

func (l *Ledger) handleGetBidder(w http.ResponseWriter, req *http.Request) error {
	addr, err := worklock.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	entry, err := l.wl.EntryOf(*addr)
	if err != nil {
		if errors.Is(err, reverts.ErrNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	bidder := &Bidder{
		Address:   *addr,
		Deposited: bigString(entry.Deposited),
		Index:     entry.Index,
		Claimed:   entry.Claimed,
	}
	if entry.Claimed {
		bidder.RequiredWork = bigStringPtr(entry.RequiredWork)
		remaining, err := l.wl.RemainingWork(*addr)
		if err != nil {
			return err
		}
		bidder.RemainingWork = bigStringPtr(remaining)
		available, err := l.wl.AvailableRefund(*addr)
		if err != nil {
			return err
		}
		bidder.AvailableRefund = bigStringPtr(available)
	}
	return utils.WriteJSON(w, bidder)
}

func parseQueryBig(req *http.Request, name string) (*big.Int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, utils.BadRequest(errors.Errorf("%s: invalid", name))
	}
	return v, nil
}

// handleGetConversion previews the curve from any of its three axes: an
// amount converts into tokens and work, tokens into work, work back into an
// amount.
func (l *Ledger) handleGetConversion(w http.ResponseWriter, req *http.Request) error {
	amount, err := parseQueryBig(req, "amount")
	if err != nil {
		return err
	}
	tokens, err := parseQueryBig(req, "tokens")
	if err != nil {
		return err
	}
	work, err := parseQueryBig(req, "work")
	if err != nil {
		return err
	}

	conv := &Conversion{}
	switch {
	case amount != nil:
		conv.Amount = amount.String()
		if tokens, err = l.wl.ConvertAmountToTokens(amount); err == nil {
			conv.Tokens = tokens.String()
			if work, err = l.wl.ConvertAmountToWork(amount); err == nil {
				conv.Work = work.String()
			}
		}
	case tokens != nil:
		conv.Tokens = tokens.String()
		conv.Work = l.wl.ConvertTokensToWork(tokens).String()
	case work != nil:
		conv.Work = work.String()
		if amount, err = l.wl.ConvertWorkToAmount(work); err == nil {
			conv.Amount = amount.String()
		}
	default:
		return utils.BadRequest(errors.New("one of amount, tokens or work is required"))
	}
	if err != nil {
		if errors.Is(err, reverts.ErrDivisionByZero) {
			return utils.BadRequest(errors.New("nothing deposited yet"))
		}
		return err
	}
	return utils.WriteJSON(w, conv)
}

func (l *Ledger) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetStatus))
	sub.Path("/bidders/{address}").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetBidder))
	sub.Path("/conversions").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetConversion))
}
