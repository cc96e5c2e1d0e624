// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

// Role keys.
var (
	KeyAdmin            = vault.BytesToBytes32([]byte("admin"))
	KeyTreasury         = vault.BytesToBytes32([]byte("treasury"))
	KeyPenaltyAuthority = vault.BytesToBytes32([]byte("penalty-authority"))
)

// Params binder of the role registry. Each key holds one address.
type Params struct {
	sctx *solidity.Context
}

func New(addr vault.Address, state *state.State) *Params {
	return &Params{solidity.NewContext(addr, state)}
}

// Get native way to get param.
func (p *Params) Get(key vault.Bytes32) (vault.Address, error) {
	return solidity.NewAddress(p.sctx, key).Get()
}

// Set native way to set param.
func (p *Params) Set(key vault.Bytes32, value vault.Address) {
	solidity.NewAddress(p.sctx, key).Set(&value)
}
