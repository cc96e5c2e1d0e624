// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/eventdb"
	"github.com/sapienio/stakevault/vault"
)

// Event is the JSON form of a committed ledger event.
type Event struct {
	Seq         uint64                `json:"seq"`
	Kind        string                `json:"kind"`
	Account     vault.Address         `json:"account"`
	Amount      *math.HexOrDecimal256 `json:"amount,omitempty"`
	Penalty     *math.HexOrDecimal256 `json:"penalty,omitempty"`
	TotalStaked *math.HexOrDecimal256 `json:"totalStaked,omitempty"`
	Multiplier  uint64                `json:"multiplier"`
	Lockup      uint64                `json:"lockup"`
	Time        uint64                `json:"time"`
}

func ConvertEvent(ev *eventdb.Event) *Event {
	return &Event{
		Seq:         ev.Seq,
		Kind:        ev.Kind,
		Account:     ev.Account,
		Amount:      utils.Amount(ev.Amount),
		Penalty:     utils.Amount(ev.Penalty),
		TotalStaked: utils.Amount(ev.TotalStaked),
		Multiplier:  ev.Multiplier,
		Lockup:      ev.Lockup,
		Time:        ev.Time,
	}
}
