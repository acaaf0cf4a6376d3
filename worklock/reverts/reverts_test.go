// Copyright (c) 2026 The WorkLock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))

	assert.True(t, IsRevertErr(ErrUnfairBid))
	assert.True(t, IsRevertErr(errors.Wrap(ErrPhaseViolation, "bid")))
}

func TestSentinelsAreDistinct(t *testing.T) {
	wrapped := errors.Wrap(ErrNotFound, "cancel bid")
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrAlreadyClaimed)
}
