// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the balance ledger of the staked token.
package token

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/reverts"
	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

var (
	slotBalances    = vault.BytesToBytes32([]byte("balances"))
	slotTotalSupply = vault.BytesToBytes32([]byte("total-supply"))

	ErrInsufficientBalance = reverts.New(reverts.Insufficient, "insufficient token balance")
	ErrZeroAmount          = reverts.New(reverts.Validation, "amount must be greater than zero")
	ErrSupplyOverflow      = reverts.New(reverts.Overflow, "token supply overflow")
)

// Token binder of the token ledger.
type Token struct {
	balances    *solidity.Mapping[vault.Address, *uint256.Int]
	totalSupply *solidity.Uint256
}

func New(addr vault.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		balances:    solidity.NewMapping[vault.Address, *uint256.Int](sctx, slotBalances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

// BalanceOf returns the token balance of addr.
func (t *Token) BalanceOf(addr vault.Address) (*uint256.Int, error) {
	return t.balances.Get(addr)
}

// TotalSupply returns the amount of tokens ever minted.
func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) setBalance(addr vault.Address, balance *uint256.Int) error {
	if balance.IsZero() {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, balance)
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(from, to vault.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	fromBalance, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toBalance, err := t.balances.Get(to)
	if err != nil {
		return err
	}

	if err := t.setBalance(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	// cannot overflow, the sum of balances is bounded by the total supply
	return t.setBalance(to, toBalance.Add(toBalance, amount))
}

// Mint creates amount new tokens owned by to.
func (t *Token) Mint(to vault.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if err := t.totalSupply.Add(amount); err != nil {
		if err == solidity.ErrUint256Overflow {
			return ErrSupplyOverflow
		}
		return err
	}
	balance, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, balance.Add(balance, amount))
}
