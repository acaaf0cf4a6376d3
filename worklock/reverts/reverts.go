// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the failure modes of the WorkLock ledger. Every
// rejected operation fails with one of these sentinels (possibly wrapped);
// a failed call never leaves a partial state mutation behind.
package reverts

import (
	"errors"
)

// ErrRevert is the error type carried by every ledger rejection.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevertErr reports whether err (or anything it wraps) is a ledger rejection.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

var (
	// ErrPhaseViolation an operation was called outside its allowed time window.
	ErrPhaseViolation = New("operation not allowed in current phase")
	// ErrBelowMinimum a new bid is below the minimum allowed bid.
	ErrBelowMinimum = New("bid is below the minimum")
	// ErrNotFound the caller has no active entry.
	ErrNotFound = New("no bid found for this address")
	// ErrAlreadyClaimed the caller has already claimed.
	ErrAlreadyClaimed = New("tokens are already claimed")
	// ErrNotClaimed refund requires a prior claim.
	ErrNotClaimed = New("tokens are not claimed")
	// ErrUnfairBid the verification scan hit a bid above the fairness cap.
	ErrUnfairBid = New("bid exceeds the allowable allocation cap")
	// ErrInvalidBatch the force refund address list is unsorted, has duplicates
	// or contains an ineligible member.
	ErrInvalidBatch = New("invalid force refund batch")
	// ErrInvalidBudget the verification scan was given a zero budget.
	ErrInvalidBudget = New("verification budget must be positive")
	// ErrReentrancy a mutating operation re-entered the ledger.
	ErrReentrancy = New("reentrant call rejected")
	// ErrDivisionByZero a conversion was requested while nothing is deposited.
	ErrDivisionByZero = New("total deposited is zero")
)
