// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/sapienio/stakevault/builtin/reverts"
	"github.com/sapienio/stakevault/builtin/staker/position"
)

// validation
var (
	ErrZeroAmount       = position.ErrZeroAmount
	ErrBelowMinimum     = reverts.New(reverts.Validation, "amount below minimum stake")
	ErrUnsupportedTenor = reverts.New(reverts.Validation, "unsupported lockup period")
	ErrZeroDuration     = reverts.New(reverts.Validation, "duration must be greater than zero")
	ErrLockupTooShort   = reverts.New(reverts.Validation, "resulting lockup below shortest tenor")
	ErrBuiltinHolder    = reverts.New(reverts.Validation, "builtin address cannot hold a position")
)

// state preconditions
var (
	ErrNoPosition         = reverts.New(reverts.State, "no active position")
	ErrCooldownActive     = reverts.New(reverts.State, "cooldown in progress")
	ErrStillLocked        = reverts.New(reverts.State, "position still locked")
	ErrLockupCompleted    = reverts.New(reverts.State, "lockup already completed, use the cooldown path")
	ErrNoCooldown         = reverts.New(reverts.State, "no cooldown in progress")
	ErrCooldownNotElapsed = reverts.New(reverts.State, "cooldown not elapsed")
	ErrPaused             = reverts.New(reverts.State, "staking is paused")
	ErrNotPaused          = reverts.New(reverts.State, "staking is not paused")
	ErrSchemaOutdated     = reverts.New(reverts.State, "storage schema outdated, migration required")
	ErrRoleUnset          = reverts.New(reverts.State, "required role is not configured")
)

// insufficient funds
var (
	ErrInsufficientStake    = reverts.New(reverts.Insufficient, "amount exceeds available stake")
	ErrInsufficientCooldown = reverts.New(reverts.Insufficient, "amount exceeds cooldown amount")
)

var (
	ErrAmountTooLarge  = position.ErrAmountTooLarge
	ErrCorruptPosition = position.ErrCorruptPosition
	ErrUnauthorized    = reverts.New(reverts.Unauthorized, "caller is not authorized")
)
