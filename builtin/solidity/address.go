// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/sapienio/stakevault/vault"
)

type Address struct {
	context *Context
	pos     vault.Bytes32
}

func NewAddress(context *Context, pos vault.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (vault.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return vault.Address{}, err
	}
	return vault.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr *vault.Address) {
	var storage vault.Bytes32
	if addr != nil {
		storage = vault.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
