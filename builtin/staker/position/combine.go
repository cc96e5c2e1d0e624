// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/staker/multiplier"
)

// Combine folds addedAmount, committed for addedLockup at now, into existing.
// Start time and lockup become amount-weighted averages and the multiplier is recomputed for the new total.
// existing is never mutated; nil is treated as an empty position.
func Combine(existing *Position, addedAmount *uint256.Int, addedLockup, now uint64) (*Position, error) {
	if existing == nil {
		existing = Empty()
	}
	if addedAmount == nil || addedAmount.IsZero() {
		return nil, ErrZeroAmount
	}
	total := existing.total()

	newTotal, overflow := new(uint256.Int).AddOverflow(total, addedAmount)
	if overflow {
		return nil, ErrAmountTooLarge
	}

	startTime, err := weightedAverage(total, existing.WeightedStartTime, addedAmount, now, newTotal)
	if err != nil {
		return nil, err
	}
	lockup, err := weightedAverage(total, existing.EffectiveLockup, addedAmount, addedLockup, newTotal)
	if err != nil {
		return nil, err
	}

	combined := existing.Clone()
	combined.TotalStaked = newTotal
	combined.WeightedStartTime = startTime
	combined.EffectiveLockup = lockup
	combined.Multiplier = multiplier.Calculate(newTotal, lockup)
	combined.LastUpdateTime = now

	if combined.Multiplier == 0 {
		return nil, ErrCorruptPosition
	}
	if err := combined.Validate(); err != nil {
		return nil, err
	}
	return combined, nil
}

// weightedAverage computes (w1*v1 + w2*v2) / sum with every step checked.
func weightedAverage(w1 *uint256.Int, v1 uint64, w2 *uint256.Int, v2 uint64, sum *uint256.Int) (uint64, error) {
	a, overflow := new(uint256.Int).MulOverflow(w1, uint256.NewInt(v1))
	if overflow {
		return 0, ErrAmountTooLarge
	}
	b, overflow := new(uint256.Int).MulOverflow(w2, uint256.NewInt(v2))
	if overflow {
		return 0, ErrAmountTooLarge
	}
	if _, overflow := a.AddOverflow(a, b); overflow {
		return 0, ErrAmountTooLarge
	}
	// a weighted average of two uint64 values always fits in uint64
	return a.Div(a, sum).Uint64(), nil
}
