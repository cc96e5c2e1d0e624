// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/vault"
)

var (
	hundred        = uint256.NewInt(100)
	penaltyPercent = uint256.NewInt(vault.EarlyUnstakePenaltyPercent)
)

// EarlyUnstakeSplit returns the holder payout and treasury penalty for an early exit of amount.
// The two always sum to amount.
func EarlyUnstakeSplit(amount *uint256.Int) (payout, penalty *uint256.Int) {
	// the result is bounded by amount, so it cannot overflow
	penalty, _ = new(uint256.Int).MulDivOverflow(amount, penaltyPercent, hundred)
	payout = new(uint256.Int).Sub(amount, penalty)
	return payout, penalty
}

// InitiateUnstake moves amount of the unlocked stake into the cooldown bucket.
// The cooldown timer of the whole bucket restarts at now.
func (s *Staker) InitiateUnstake(holder vault.Address, amount *uint256.Int, now uint64) (*position.Position, error) {
	var result *position.Position
	err := s.atomic(func() error {
		if err := s.requireActive(holder); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		existing, err := s.storage.GetPosition(holder)
		if err != nil {
			return err
		}
		if existing.IsEmpty() {
			return ErrNoPosition
		}
		if existing.IsLocked(now) {
			return ErrStillLocked
		}
		if amount.Gt(existing.Free()) {
			return ErrInsufficientStake
		}

		updated := existing.Clone()
		updated.CooldownAmount.Add(updated.CooldownAmount, amount)
		updated.CooldownStart = now
		updated.LastUpdateTime = now
		if err := s.storage.SetPosition(holder, updated); err != nil {
			return err
		}

		logger.Debug("cooldown initiated", "holder", holder, "amount", amount, "cooldown", updated.CooldownAmount)
		s.emit(Event{
			Kind:        EventCooldownInitiated,
			Account:     holder,
			Amount:      amount.Clone(),
			TotalStaked: updated.TotalStaked.Clone(),
			Multiplier:  updated.Multiplier,
			Lockup:      updated.EffectiveLockup,
			Time:        now,
		})
		s.emitStakeChanged(holder, updated, now)
		result = updated
		return nil
	})
	return result, err
}

// Unstake withdraws amount from an elapsed cooldown bucket and pays it to the holder in full.
func (s *Staker) Unstake(holder vault.Address, amount *uint256.Int, now uint64) (*position.Position, error) {
	var result *position.Position
	err := s.atomic(func() error {
		if err := s.requireActive(holder); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		existing, err := s.storage.GetPosition(holder)
		if err != nil {
			return err
		}
		if existing.IsEmpty() {
			return ErrNoPosition
		}
		if !existing.HasCooldown() {
			return ErrNoCooldown
		}
		if amount.Gt(existing.CooldownAmount) {
			return ErrInsufficientCooldown
		}
		if !existing.IsCooldownElapsed(now) {
			return ErrCooldownNotElapsed
		}

		updated := existing.Clone()
		updated.CooldownAmount.Sub(updated.CooldownAmount, amount)
		updated = shrink(updated, amount, now)

		if err := s.releaseStake(holder, amount, new(uint256.Int)); err != nil {
			return err
		}
		if err := s.storage.SetPosition(holder, updated); err != nil {
			return err
		}

		logger.Debug("unstaked", "holder", holder, "amount", amount, "remaining", updated.TotalStaked)
		s.emit(Event{
			Kind:        EventUnstaked,
			Account:     holder,
			Amount:      amount.Clone(),
			TotalStaked: updated.TotalStaked.Clone(),
			Multiplier:  updated.Multiplier,
			Lockup:      updated.EffectiveLockup,
			Time:        now,
		})
		s.emitStakeChanged(holder, updated, now)
		result = updated
		return nil
	})
	return result, err
}

// EarlyUnstake exits amount of still locked stake immediately.
// The holder receives amount minus the early exit penalty, which is routed to the treasury.
func (s *Staker) EarlyUnstake(holder vault.Address, amount *uint256.Int, now uint64) (*position.Position, error) {
	var result *position.Position
	err := s.atomic(func() error {
		if err := s.requireActive(holder); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}
		existing, err := s.storage.GetPosition(holder)
		if err != nil {
			return err
		}
		if existing.IsEmpty() {
			return ErrNoPosition
		}
		if !existing.IsLocked(now) {
			return ErrLockupCompleted
		}
		if amount.Gt(existing.Free()) {
			return ErrInsufficientStake
		}

		payout, penalty := EarlyUnstakeSplit(amount)
		updated := shrink(existing, amount, now)

		if err := s.releaseStake(holder, payout, penalty); err != nil {
			return err
		}
		if err := s.storage.SetPosition(holder, updated); err != nil {
			return err
		}

		logger.Debug("early unstaked", "holder", holder, "amount", amount, "penalty", penalty)
		s.emit(Event{
			Kind:        EventEarlyUnstaked,
			Account:     holder,
			Amount:      payout,
			Penalty:     penalty,
			TotalStaked: updated.TotalStaked.Clone(),
			Multiplier:  updated.Multiplier,
			Lockup:      updated.EffectiveLockup,
			Time:        now,
		})
		s.emitStakeChanged(holder, updated, now)
		result = updated
		return nil
	})
	return result, err
}
