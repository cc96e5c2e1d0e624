// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/holiman/uint256"
)

// Day is the length of a day in seconds.
const Day uint64 = 24 * 60 * 60

// Staking tenors.
const (
	LockupPeriod30Days  = 30 * Day
	LockupPeriod90Days  = 90 * Day
	LockupPeriod180Days = 180 * Day
	LockupPeriod365Days = 365 * Day

	// MinLockupPeriod is the shortest supported tenor.
	MinLockupPeriod = LockupPeriod30Days
	// MaxLockupPeriod caps the effective lockup of any position.
	MaxLockupPeriod = LockupPeriod365Days
)

// Exit parameters.
const (
	CooldownPeriod             = 2 * Day
	EarlyUnstakePenaltyPercent = 20
)

// Multipliers are expressed in basis points.
const (
	BaseMultiplier   uint64 = 10000
	MinMultiplier           = BaseMultiplier
	MaxMultiplier    uint64 = 15000
	MaxDurationBonus uint64 = 2500
	MaxAmountBonus   uint64 = 2500
)

// Decimals of the staked token.
const Decimals = 18

var (
	// TokenUnit is one whole token in base units.
	TokenUnit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))

	// MinimumStake is the smallest amount accepted by a single stake or increase.
	MinimumStake = Tokens(1_000)
	// MaxMultiplierAmount is the amount at which the amount bonus saturates.
	MaxMultiplierAmount = Tokens(10_000)
)

// Built-in addresses.
var (
	StakerAddress = BytesToAddress([]byte("Staker"))
	TokenAddress  = BytesToAddress([]byte("Token"))
	ReviewAddress = BytesToAddress([]byte("Review"))
	ParamsAddress = BytesToAddress([]byte("Params"))
)

// IsBuiltin reports whether addr is one of the built-in addresses.
// Built-in addresses never hold tokens or positions of their own.
func IsBuiltin(addr Address) bool {
	switch addr {
	case StakerAddress, TokenAddress, ReviewAddress, ParamsAddress:
		return true
	}
	return false
}

// SupportedTenors lists the lockup durations a stake can be opened with, ascending.
func SupportedTenors() []uint64 {
	return []uint64{LockupPeriod30Days, LockupPeriod90Days, LockupPeriod180Days, LockupPeriod365Days}
}

// Tokens converts a whole token count into base units.
func Tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), TokenUnit)
}
