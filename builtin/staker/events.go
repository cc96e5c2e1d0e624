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

// EventKind names a ledger notification.
type EventKind string

const (
	EventStakeChanged      EventKind = "StakeChanged"
	EventCooldownInitiated EventKind = "CooldownInitiated"
	EventUnstaked          EventKind = "Unstaked"
	EventEarlyUnstaked     EventKind = "EarlyUnstaked"
	EventPenaltyProcessed  EventKind = "PenaltyProcessed"
	EventPaused            EventKind = "Paused"
	EventUnpaused          EventKind = "Unpaused"
	EventMigrated          EventKind = "Migrated"
)

// Event is emitted by a successful mutation.
// Amount is the amount moved by the operation, Penalty the share routed to the treasury.
type Event struct {
	Kind        EventKind
	Account     vault.Address
	Amount      *uint256.Int
	Penalty     *uint256.Int
	TotalStaked *uint256.Int
	Multiplier  uint64
	Lockup      uint64
	Time        uint64
}

func (s *Staker) emit(ev Event) {
	if ev.Amount == nil {
		ev.Amount = new(uint256.Int)
	}
	if ev.Penalty == nil {
		ev.Penalty = new(uint256.Int)
	}
	if ev.TotalStaked == nil {
		ev.TotalStaked = new(uint256.Int)
	}
	s.events = append(s.events, ev)
}

// emitStakeChanged reports the new shape of the holder's position.
func (s *Staker) emitStakeChanged(holder vault.Address, p *position.Position, now uint64) {
	s.emit(Event{
		Kind:        EventStakeChanged,
		Account:     holder,
		TotalStaked: p.TotalStaked.Clone(),
		Multiplier:  p.Multiplier,
		Lockup:      p.EffectiveLockup,
		Time:        now,
	})
}

// Events returns the events emitted since the last call and clears the buffer.
func (s *Staker) Events() []Event {
	events := s.events
	s.events = nil
	return events
}
