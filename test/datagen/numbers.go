// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/rand/v2"

	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/vault"
)

func RandInt() int {
	return rand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return rand.N(n) //#nosec G404
}

// RandTokens returns a random whole-token amount within [min, max] tokens.
func RandTokens(min, max uint64) *uint256.Int {
	return vault.Tokens(min + rand.Uint64N(max-min+1)) //#nosec G404
}
