// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/ledger"
	"github.com/sapienio/stakevault/vault"
)

type Position struct {
	Address           vault.Address         `json:"address"`
	State             string                `json:"state"`
	TotalStaked       *math.HexOrDecimal256 `json:"totalStaked"`
	WeightedStartTime uint64                `json:"weightedStartTime"`
	EffectiveLockup   uint64                `json:"effectiveLockup"`
	Multiplier        uint64                `json:"multiplier"`
	CooldownAmount    *math.HexOrDecimal256 `json:"cooldownAmount"`
	CooldownStart     uint64                `json:"cooldownStart"`
	LastUpdateTime    uint64                `json:"lastUpdateTime"`
	Locked            *math.HexOrDecimal256 `json:"locked"`
	Unlocked          *math.HexOrDecimal256 `json:"unlocked"`
	PendingCooldown   *math.HexOrDecimal256 `json:"pendingCooldown"`
	Ready             *math.HexOrDecimal256 `json:"ready"`
	UnlockTime        uint64                `json:"unlockTime"`
	CooldownEnd       uint64                `json:"cooldownEnd"`
	EarlyUnstakeValue *math.HexOrDecimal256 `json:"earlyUnstakeValue"`
	Time              uint64                `json:"time"`
}

func convertPosition(v *ledger.PositionView) *Position {
	p := v.Position
	return &Position{
		Address:           v.Holder,
		State:             v.State.String(),
		TotalStaked:       utils.Amount(p.TotalStaked),
		WeightedStartTime: p.WeightedStartTime,
		EffectiveLockup:   p.EffectiveLockup,
		Multiplier:        p.Multiplier,
		CooldownAmount:    utils.Amount(p.CooldownAmount),
		CooldownStart:     p.CooldownStart,
		LastUpdateTime:    p.LastUpdateTime,
		Locked:            utils.Amount(v.Locked),
		Unlocked:          utils.Amount(v.Unlocked),
		PendingCooldown:   utils.Amount(v.PendingCooldown),
		Ready:             utils.Amount(v.Ready),
		UnlockTime:        v.UnlockTime,
		CooldownEnd:       v.CooldownEnd,
		EarlyUnstakeValue: utils.Amount(v.EarlyUnstakeValue),
		Time:              v.Time,
	}
}

// OpRequest is the body of a holder operation. Lockup is the tenor for stake
// and the extension for increase-lockup.
type OpRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
	Lockup uint64                `json:"lockup,omitempty"`
}
