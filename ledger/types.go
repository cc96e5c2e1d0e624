// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/vault"
)

// PositionView is a position with the amounts derived at a point in time.
type PositionView struct {
	Holder            vault.Address
	Position          *position.Position
	State             position.State
	Locked            *uint256.Int
	Unlocked          *uint256.Int
	PendingCooldown   *uint256.Int
	Ready             *uint256.Int
	UnlockTime        uint64
	CooldownEnd       uint64
	EarlyUnstakeValue *uint256.Int // payout of an early exit of the whole locked amount
	Time              uint64
}

func newPositionView(holder vault.Address, p *position.Position, now uint64, payout func(*uint256.Int) *uint256.Int) *PositionView {
	v := &PositionView{
		Holder:            holder,
		Position:          p,
		State:             p.State(now),
		Locked:            p.LockedAmount(now),
		Unlocked:          p.UnlockedAmount(now),
		PendingCooldown:   p.PendingCooldownAmount(now),
		Ready:             p.ReadyAmount(now),
		EarlyUnstakeValue: payout(p.LockedAmount(now)),
		Time:              now,
	}
	if !p.IsEmpty() {
		v.UnlockTime = p.UnlockTime()
	}
	if p.HasCooldown() {
		v.CooldownEnd = p.CooldownEnd()
	}
	return v
}

// Stats is the ledger wide summary.
type Stats struct {
	TotalStaked   *uint256.Int
	TotalPenalty  *uint256.Int
	Custody       *uint256.Int
	TotalSupply   *uint256.Int
	Holders       uint64
	Paused        bool
	SchemaVersion uint64
	Time          uint64
}
