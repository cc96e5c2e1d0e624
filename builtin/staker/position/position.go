// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/reverts"
	"github.com/sapienio/stakevault/vault"
)

var (
	ErrAmountTooLarge  = reverts.New(reverts.Overflow, "amount too large for position weight")
	ErrCorruptPosition = reverts.New(reverts.Invariant, "position record violates invariants")
	ErrZeroAmount      = reverts.New(reverts.Validation, "amount must be greater than zero")
)

// State of a position at a given time.
type State uint8

const (
	StateEmpty State = iota
	StateLocked
	StateUnlocked
	StateCooldown
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateCooldown:
		return "cooldown"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Position is the staking record of one account.
// CooldownStart is meaningful only while CooldownAmount is non zero.
type Position struct {
	TotalStaked       *uint256.Int
	WeightedStartTime uint64
	EffectiveLockup   uint64
	Multiplier        uint64
	CooldownAmount    *uint256.Int
	CooldownStart     uint64
	LastUpdateTime    uint64
}

// Empty returns a position with all fields zeroed.
func Empty() *Position {
	return &Position{
		TotalStaked:    new(uint256.Int),
		CooldownAmount: new(uint256.Int),
	}
}

// Clone returns a deep copy.
func (p *Position) Clone() *Position {
	cpy := *p
	cpy.TotalStaked = p.total().Clone()
	cpy.CooldownAmount = p.cooldown().Clone()
	return &cpy
}

func (p *Position) total() *uint256.Int {
	if p.TotalStaked == nil {
		return new(uint256.Int)
	}
	return p.TotalStaked
}

func (p *Position) cooldown() *uint256.Int {
	if p.CooldownAmount == nil {
		return new(uint256.Int)
	}
	return p.CooldownAmount
}

func (p *Position) IsEmpty() bool {
	return p == nil || p.total().IsZero()
}

func (p *Position) HasCooldown() bool {
	return p != nil && !p.cooldown().IsZero()
}

// UnlockTime is the time the lockup completes, saturated at the max timestamp.
func (p *Position) UnlockTime() uint64 {
	if p.WeightedStartTime > math.MaxUint64-p.EffectiveLockup {
		return math.MaxUint64
	}
	return p.WeightedStartTime + p.EffectiveLockup
}

// CooldownEnd is the time the cooldown bucket becomes withdrawable.
func (p *Position) CooldownEnd() uint64 {
	if p.CooldownStart > math.MaxUint64-vault.CooldownPeriod {
		return math.MaxUint64
	}
	return p.CooldownStart + vault.CooldownPeriod
}

func (p *Position) IsLocked(now uint64) bool {
	return now < p.UnlockTime()
}

func (p *Position) IsCooldownElapsed(now uint64) bool {
	return now >= p.CooldownEnd()
}

// State reports the position state at now. The cooldown bucket takes precedence over the lockup.
func (p *Position) State(now uint64) State {
	switch {
	case p.IsEmpty():
		return StateEmpty
	case p.HasCooldown() && p.IsCooldownElapsed(now):
		return StateReady
	case p.HasCooldown():
		return StateCooldown
	case p.IsLocked(now):
		return StateLocked
	default:
		return StateUnlocked
	}
}

// Free is the stake not committed to the cooldown bucket.
func (p *Position) Free() *uint256.Int {
	total, cooldown := p.total(), p.cooldown()
	if cooldown.Gt(total) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(total, cooldown)
}

// LockedAmount is the free stake still inside its lockup.
func (p *Position) LockedAmount(now uint64) *uint256.Int {
	if p.IsEmpty() || !p.IsLocked(now) {
		return new(uint256.Int)
	}
	return p.Free()
}

// UnlockedAmount is the free stake past its lockup, eligible for a cooldown.
func (p *Position) UnlockedAmount(now uint64) *uint256.Int {
	if p.IsEmpty() || p.IsLocked(now) {
		return new(uint256.Int)
	}
	return p.Free()
}

// PendingCooldownAmount is the cooldown bucket while its timer is running.
func (p *Position) PendingCooldownAmount(now uint64) *uint256.Int {
	if !p.HasCooldown() || p.IsCooldownElapsed(now) {
		return new(uint256.Int)
	}
	return p.cooldown().Clone()
}

// ReadyAmount is the cooldown bucket once withdrawable.
func (p *Position) ReadyAmount(now uint64) *uint256.Int {
	if !p.HasCooldown() || !p.IsCooldownElapsed(now) {
		return new(uint256.Int)
	}
	return p.cooldown().Clone()
}

// Validate checks the record invariants.
func (p *Position) Validate() error {
	total, cooldown := p.total(), p.cooldown()
	if cooldown.Gt(total) {
		return ErrCorruptPosition
	}
	if total.IsZero() {
		if p.Multiplier != 0 || p.CooldownStart != 0 || p.WeightedStartTime != 0 || p.EffectiveLockup != 0 {
			return ErrCorruptPosition
		}
		return nil
	}
	if p.Multiplier < vault.MinMultiplier || p.Multiplier > vault.MaxMultiplier {
		return ErrCorruptPosition
	}
	if cooldown.IsZero() && p.CooldownStart != 0 {
		return ErrCorruptPosition
	}
	return nil
}
