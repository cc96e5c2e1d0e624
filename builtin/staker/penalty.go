// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/builtin/params"
	"github.com/sapienio/stakevault/vault"
)

// PenaltyStatus reports how much of a penalty request was collected.
type PenaltyStatus uint8

const (
	// PenaltyNone means the target held no stake. It is not an error.
	PenaltyNone PenaltyStatus = iota
	// PenaltyPartial means the whole remaining stake was seized, less than requested.
	PenaltyPartial
	// PenaltyFull means exactly the requested amount was seized.
	PenaltyFull
)

func (s PenaltyStatus) String() string {
	switch s {
	case PenaltyNone:
		return "none"
	case PenaltyPartial:
		return "partial"
	case PenaltyFull:
		return "full"
	default:
		return "unknown"
	}
}

// PenaltyResult is the outcome of ProcessPenalty.
type PenaltyResult struct {
	Account   vault.Address
	Requested *uint256.Int
	Seized    *uint256.Int
	Remaining *uint256.Int
	Status    PenaltyStatus
}

// ProcessPenalty seizes up to requested from the account's stake and routes it to the treasury.
//
// This is the privileged bypass of holder protections: locked stake and the cooldown bucket
// are both reachable, and pause does not apply. Only the PenaltyAuthority may call it.
func (s *Staker) ProcessPenalty(caller, account vault.Address, requested *uint256.Int, now uint64) (*PenaltyResult, error) {
	var result *PenaltyResult
	err := s.atomic(func() error {
		if err := s.requireSchema(); err != nil {
			return err
		}
		authority, err := s.role(params.KeyPenaltyAuthority)
		if err != nil {
			return err
		}
		if caller != authority {
			return ErrUnauthorized
		}
		if requested == nil || requested.IsZero() {
			return ErrZeroAmount
		}

		existing, err := s.storage.GetPosition(account)
		if err != nil {
			return err
		}
		if existing.IsEmpty() {
			logger.Debug("penalty target has no stake", "account", account)
			result = &PenaltyResult{
				Account:   account,
				Requested: requested.Clone(),
				Seized:    new(uint256.Int),
				Remaining: new(uint256.Int),
				Status:    PenaltyNone,
			}
			return nil
		}

		seized, status := requested.Clone(), PenaltyFull
		if existing.TotalStaked.Lt(requested) {
			seized, status = existing.TotalStaked.Clone(), PenaltyPartial
		}
		updated := shrink(existing, seized, now)

		if err := s.releaseStake(account, new(uint256.Int), seized); err != nil {
			return err
		}
		if err := s.storage.SetPosition(account, updated); err != nil {
			return err
		}

		logger.Info("penalty processed", "account", account, "requested", requested, "seized", seized, "status", status)
		s.emit(Event{
			Kind:        EventPenaltyProcessed,
			Account:     account,
			Penalty:     seized.Clone(),
			TotalStaked: updated.TotalStaked.Clone(),
			Multiplier:  updated.Multiplier,
			Lockup:      updated.EffectiveLockup,
			Time:        now,
		})
		s.emitStakeChanged(account, updated, now)
		result = &PenaltyResult{
			Account:   account,
			Requested: requested.Clone(),
			Seized:    seized,
			Remaining: updated.TotalStaked.Clone(),
			Status:    status,
		}
		return nil
	})
	return result, err
}
