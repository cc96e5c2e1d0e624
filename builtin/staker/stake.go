// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/params"
	"github.com/sapienio/stakevault/builtin/staker/multiplier"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/vault"
)

func recompute(p *position.Position) uint64 {
	return multiplier.Calculate(p.TotalStaked, p.EffectiveLockup)
}

func validateStakeAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	if amount.Lt(vault.MinimumStake) {
		return ErrBelowMinimum
	}
	return nil
}

// Stake locks amount of the holder's tokens for lockup seconds, combining it into any existing position.
func (s *Staker) Stake(holder vault.Address, amount *uint256.Int, lockup, now uint64) (*position.Position, error) {
	var result *position.Position
	err := s.atomic(func() error {
		if err := s.requireActive(holder); err != nil {
			return err
		}
		if err := validateStakeAmount(amount); err != nil {
			return err
		}
		if !multiplier.IsSupportedTenor(lockup) {
			return ErrUnsupportedTenor
		}
		existing, err := s.storage.GetPosition(holder)
		if err != nil {
			return err
		}
		if existing.HasCooldown() {
			return ErrCooldownActive
		}

		combined, err := position.Combine(existing, amount, lockup, now)
		if err != nil {
			return err
		}
		if err := s.addStake(holder, amount); err != nil {
			return err
		}
		if err := s.storage.SetPosition(holder, combined); err != nil {
			return err
		}

		logger.Debug("staked", "holder", holder, "amount", amount, "lockup", lockup, "multiplier", combined.Multiplier)
		s.emitStakeChanged(holder, combined, now)
		result = combined
		return nil
	})
	return result, err
}

// IncreaseAmount adds amount to an existing position, keeping its effective lockup as the weight of the addition.
func (s *Staker) IncreaseAmount(holder vault.Address, amount *uint256.Int, now uint64) (*position.Position, error) {
	var result *position.Position
	err := s.atomic(func() error {
		if err := s.requireActive(holder); err != nil {
			return err
		}
		if err := validateStakeAmount(amount); err != nil {
			return err
		}
		existing, err := s.storage.GetPosition(holder)
		if err != nil {
			return err
		}
		if existing.IsEmpty() {
			return ErrNoPosition
		}
		if existing.HasCooldown() {
			return ErrCooldownActive
		}

		combined, err := position.Combine(existing, amount, existing.EffectiveLockup, now)
		if err != nil {
			return err
		}
		if err := s.addStake(holder, amount); err != nil {
			return err
		}
		if err := s.storage.SetPosition(holder, combined); err != nil {
			return err
		}

		logger.Debug("increased amount", "holder", holder, "amount", amount, "total", combined.TotalStaked)
		s.emitStakeChanged(holder, combined, now)
		result = combined
		return nil
	})
	return result, err
}

// IncreaseLockup extends the remaining lockup by extra seconds, restarting the lockup at now.
// The effective lockup is capped at MaxLockupPeriod. No tokens move.
func (s *Staker) IncreaseLockup(holder vault.Address, extra, now uint64) (*position.Position, error) {
	var result *position.Position
	err := s.atomic(func() error {
		if err := s.requireActive(holder); err != nil {
			return err
		}
		if extra == 0 {
			return ErrZeroDuration
		}
		existing, err := s.storage.GetPosition(holder)
		if err != nil {
			return err
		}
		if existing.IsEmpty() {
			return ErrNoPosition
		}
		if existing.HasCooldown() {
			return ErrCooldownActive
		}

		var remaining uint64
		if unlock := existing.UnlockTime(); unlock > now {
			remaining = unlock - now
		}
		lockup := vault.MaxLockupPeriod
		if extra < vault.MaxLockupPeriod && remaining < vault.MaxLockupPeriod-extra {
			lockup = remaining + extra
		}
		if lockup < vault.MinLockupPeriod {
			return ErrLockupTooShort
		}

		updated := existing.Clone()
		updated.EffectiveLockup = lockup
		updated.WeightedStartTime = now
		updated.Multiplier = recompute(updated)
		updated.LastUpdateTime = now
		if err := s.storage.SetPosition(holder, updated); err != nil {
			return err
		}

		logger.Debug("increased lockup", "holder", holder, "lockup", lockup, "multiplier", updated.Multiplier)
		s.emitStakeChanged(holder, updated, now)
		result = updated
		return nil
	})
	return result, err
}

func (s *Staker) requireAdmin(caller vault.Address) error {
	admin, err := s.role(params.KeyAdmin)
	if err != nil {
		return err
	}
	if caller != admin {
		return ErrUnauthorized
	}
	return nil
}

// Pause stops holder mutations. Penalties stay available.
func (s *Staker) Pause(caller vault.Address, now uint64) error {
	return s.atomic(func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		paused, err := s.storage.IsPaused()
		if err != nil {
			return err
		}
		if paused {
			return ErrPaused
		}
		if err := s.storage.SetPaused(true); err != nil {
			return err
		}
		logger.Info("staking paused", "by", caller)
		s.emit(Event{Kind: EventPaused, Account: caller, Time: now})
		return nil
	})
}

// Unpause resumes holder mutations.
func (s *Staker) Unpause(caller vault.Address, now uint64) error {
	return s.atomic(func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		paused, err := s.storage.IsPaused()
		if err != nil {
			return err
		}
		if !paused {
			return ErrNotPaused
		}
		if err := s.storage.SetPaused(false); err != nil {
			return err
		}
		logger.Info("staking unpaused", "by", caller)
		s.emit(Event{Kind: EventUnpaused, Account: caller, Time: now})
		return nil
	})
}
