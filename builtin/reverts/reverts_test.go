// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(State, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, State, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))

	var nilRevert *ErrRevert
	assert.False(t, IsRevertErr(nilRevert))
}

func Test_KindOf(t *testing.T) {
	wrapped := errors.Wrap(New(Overflow, "amount too large"), "stake")

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, Overflow, kind)
	assert.Equal(t, "overflow", kind.String())

	_, ok = KindOf(errors.New("disk"))
	assert.False(t, ok)
	assert.Equal(t, "kind(42)", Kind(42).String())
}
