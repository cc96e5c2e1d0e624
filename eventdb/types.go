// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/vault"
)

// Event is a committed ledger notification.
type Event struct {
	Seq         uint64        `json:"seq"`
	Kind        string        `json:"kind"`
	Account     vault.Address `json:"account"`
	Amount      *uint256.Int  `json:"amount"`
	Penalty     *uint256.Int  `json:"penalty"`
	TotalStaked *uint256.Int  `json:"totalStaked"`
	Multiplier  uint64        `json:"multiplier"`
	Lockup      uint64        `json:"lockup"`
	Time        uint64        `json:"time"`
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. To lower than From means no upper bound.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type Filter struct {
	Account *vault.Address
	Kinds   []string
	Range   *Range
	Order   Order
	Options *Options
}
