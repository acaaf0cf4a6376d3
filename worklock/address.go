// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package worklock

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// AddressLength length of an address in bytes.
const AddressLength = common.AddressLength

// Address identifies a bidder account.
type Address common.Address

// String implements the stringer interface.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Bytes returns the byte slice form of the address.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether the address is all zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare returns -1, 0 or 1 per bytes ordering; force refund batches
// must be strictly ascending under this ordering.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// ParseAddress converts a string presented address into Address type.
func ParseAddress(s string) (*Address, error) {
	if len(s) == AddressLength*2 {
		// no prefix
	} else if len(s) == AddressLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return nil, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return nil, errors.New("invalid length")
	}

	var addr Address
	if _, err := hex.Decode(addr[:], []byte(s)); err != nil {
		return nil, err
	}
	return &addr, nil
}

// BytesToAddress converts a byte slice into an address.
// If b is larger than the address length, b will be cropped from the left,
// and extended from the left if smaller.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}

// MarshalText implements encoding.TextMarshaler for JSON responses.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = *parsed
	return nil
}
