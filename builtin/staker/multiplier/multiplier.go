// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package multiplier maps a stake amount and lockup to a reward multiplier in basis points.
package multiplier

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/vault"
)

type node struct {
	lockup uint64
	bonus  uint64
}

// durationNodes are the bonus values at each supported tenor, ascending.
var durationNodes = []node{
	{vault.LockupPeriod30Days, 0},
	{vault.LockupPeriod90Days, 500},
	{vault.LockupPeriod180Days, 1250},
	{vault.LockupPeriod365Days, vault.MaxDurationBonus},
}

var (
	amountFloor = vault.MinimumStake
	amountRange = new(uint256.Int).Sub(vault.MaxMultiplierAmount, vault.MinimumStake)
	maxBonus    = uint256.NewInt(vault.MaxAmountBonus)
)

// Calculate returns the multiplier for amount locked for lockup seconds.
// The result is always within [MinMultiplier, MaxMultiplier].
func Calculate(amount *uint256.Int, lockup uint64) uint64 {
	m := vault.BaseMultiplier + DurationBonus(lockup) + AmountBonus(amount)
	if m > vault.MaxMultiplier {
		return vault.MaxMultiplier
	}
	return m
}

// DurationBonus interpolates linearly between the tenor nodes.
func DurationBonus(lockup uint64) uint64 {
	first := durationNodes[0]
	if lockup <= first.lockup {
		return first.bonus
	}
	for i := 1; i < len(durationNodes); i++ {
		lo, hi := durationNodes[i-1], durationNodes[i]
		if lockup < hi.lockup {
			return lo.bonus + (lockup-lo.lockup)*(hi.bonus-lo.bonus)/(hi.lockup-lo.lockup)
		}
	}
	return vault.MaxDurationBonus
}

// AmountBonus grows linearly from zero at MinimumStake to MaxAmountBonus at MaxMultiplierAmount.
func AmountBonus(amount *uint256.Int) uint64 {
	if amount == nil || !amount.Gt(amountFloor) {
		return 0
	}
	if !amount.Lt(vault.MaxMultiplierAmount) {
		return vault.MaxAmountBonus
	}
	// amount is below the ceiling here, the product stays far from 2^256
	bonus := new(uint256.Int).Sub(amount, amountFloor)
	bonus.Mul(bonus, maxBonus)
	bonus.Div(bonus, amountRange)
	return bonus.Uint64()
}

// IsSupportedTenor reports whether lockup is one of the tenors a stake can be opened with.
func IsSupportedTenor(lockup uint64) bool {
	for _, n := range durationNodes {
		if n.lockup == lockup {
			return true
		}
	}
	return false
}
