// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/builtin/params"
	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker/globalstats"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/log"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

// SchemaVersion is the storage layout written by this package.
const SchemaVersion uint64 = 2

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// TokenLedger is the balance ledger holding the staked token.
type TokenLedger interface {
	BalanceOf(addr vault.Address) (*uint256.Int, error)
	Transfer(from, to vault.Address, amount *uint256.Int) error
}

// Roles are the privileged addresses of the ledger.
type Roles struct {
	Admin            vault.Address
	Treasury         vault.Address
	PenaltyAuthority vault.Address
}

// Staker implements the staking ledger. The staker address doubles as the custody account.
type Staker struct {
	addr    vault.Address
	state   *state.State
	token   TokenLedger
	params  *params.Params
	storage *storage

	globalStatsService *globalstats.Service

	events []Event
}

// New create a new instance.
func New(addr vault.Address, state *state.State, token TokenLedger, params *params.Params) *Staker {
	storage := newStorage(addr, state)
	return &Staker{
		addr:               addr,
		state:              state,
		token:              token,
		params:             params,
		storage:            storage,
		globalStatsService: globalstats.New(storage.context),
	}
}

// Initialize stamps the current schema version on a fresh store.
func (s *Staker) Initialize() error {
	version, err := s.storage.SchemaVersion()
	if err != nil {
		return err
	}
	if version != 0 {
		return nil
	}
	return s.storage.SetSchemaVersion(SchemaVersion)
}

// atomic runs fn inside a checkpoint. On error the state and the event buffer are rolled back.
func (s *Staker) atomic(fn func() error) error {
	revision := s.state.NewCheckpoint()
	emitted := len(s.events)
	if err := fn(); err != nil {
		s.state.RevertTo(revision)
		s.events = s.events[:emitted]
		return err
	}
	return nil
}

func (s *Staker) requireSchema() error {
	version, err := s.storage.SchemaVersion()
	if err != nil {
		return err
	}
	if version != SchemaVersion {
		return ErrSchemaOutdated
	}
	return nil
}

// requireActive guards holder mutations.
func (s *Staker) requireActive(holder vault.Address) error {
	if vault.IsBuiltin(holder) {
		return ErrBuiltinHolder
	}
	if err := s.requireSchema(); err != nil {
		return err
	}
	paused, err := s.storage.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

func (s *Staker) role(key vault.Bytes32) (vault.Address, error) {
	addr, err := s.params.Get(key)
	if err != nil {
		return vault.Address{}, errors.Wrap(err, "failed to get role")
	}
	if addr.IsZero() {
		return vault.Address{}, ErrRoleUnset
	}
	return addr, nil
}

// Roles returns the configured privileged addresses.
func (s *Staker) Roles() (*Roles, error) {
	admin, err := s.params.Get(params.KeyAdmin)
	if err != nil {
		return nil, err
	}
	treasury, err := s.params.Get(params.KeyTreasury)
	if err != nil {
		return nil, err
	}
	authority, err := s.params.Get(params.KeyPenaltyAuthority)
	if err != nil {
		return nil, err
	}
	return &Roles{Admin: admin, Treasury: treasury, PenaltyAuthority: authority}, nil
}

// addStake moves amount from the holder into custody and accounts it in the aggregate.
func (s *Staker) addStake(holder vault.Address, amount *uint256.Int) error {
	if err := s.globalStatsService.AddStake(amount); err != nil {
		if errors.Is(err, solidity.ErrUint256Overflow) {
			return ErrAmountTooLarge
		}
		return err
	}
	return s.token.Transfer(holder, s.addr, amount)
}

// releaseStake removes amount from the aggregate, paying payout to the holder and penalty to the treasury.
func (s *Staker) releaseStake(holder vault.Address, payout, penalty *uint256.Int) error {
	amount := new(uint256.Int).Add(payout, penalty)
	if err := s.globalStatsService.RemoveStake(amount); err != nil {
		return errors.Wrap(err, "aggregate out of sync")
	}
	if !payout.IsZero() {
		if err := s.token.Transfer(s.addr, holder, payout); err != nil {
			return err
		}
	}
	if !penalty.IsZero() {
		treasury, err := s.role(params.KeyTreasury)
		if err != nil {
			return err
		}
		if err := s.token.Transfer(s.addr, treasury, penalty); err != nil {
			return err
		}
		if err := s.globalStatsService.RecordPenalty(penalty); err != nil {
			return err
		}
	}
	return nil
}

// shrink reduces the position by amount, capping the cooldown bucket at the new total.
// The multiplier is recomputed for the reduced total.
func shrink(p *position.Position, amount *uint256.Int, now uint64) *position.Position {
	next := p.Clone()
	next.TotalStaked.Sub(next.TotalStaked, amount)
	if next.TotalStaked.IsZero() {
		return position.Empty()
	}
	if next.CooldownAmount.Gt(next.TotalStaked) {
		next.CooldownAmount.Set(next.TotalStaked)
	}
	if next.CooldownAmount.IsZero() {
		next.CooldownStart = 0
	}
	next.Multiplier = recompute(next)
	next.LastUpdateTime = now
	return next
}

//
// Getters - no state change
//

// GetPosition returns the position of holder. Absent positions are returned empty.
func (s *Staker) GetPosition(holder vault.Address) (*position.Position, error) {
	return s.storage.GetPosition(holder)
}

// PositionState returns the state of the holder's position at now.
func (s *Staker) PositionState(holder vault.Address, now uint64) (position.State, error) {
	p, err := s.storage.GetPosition(holder)
	if err != nil {
		return position.StateEmpty, err
	}
	return p.State(now), nil
}

// LockedAmount returns the free stake of holder still inside its lockup.
func (s *Staker) LockedAmount(holder vault.Address, now uint64) (*uint256.Int, error) {
	p, err := s.storage.GetPosition(holder)
	if err != nil {
		return nil, err
	}
	return p.LockedAmount(now), nil
}

// UnlockedAmount returns the free stake of holder eligible for a cooldown.
func (s *Staker) UnlockedAmount(holder vault.Address, now uint64) (*uint256.Int, error) {
	p, err := s.storage.GetPosition(holder)
	if err != nil {
		return nil, err
	}
	return p.UnlockedAmount(now), nil
}

// CooldownAmount returns the whole cooldown bucket of holder, elapsed or not.
func (s *Staker) CooldownAmount(holder vault.Address) (*uint256.Int, error) {
	p, err := s.storage.GetPosition(holder)
	if err != nil {
		return nil, err
	}
	return p.CooldownAmount.Clone(), nil
}

// ReadyAmount returns the amount holder can withdraw at now.
func (s *Staker) ReadyAmount(holder vault.Address, now uint64) (*uint256.Int, error) {
	p, err := s.storage.GetPosition(holder)
	if err != nil {
		return nil, err
	}
	return p.ReadyAmount(now), nil
}

// TotalStaked returns the ledger-wide aggregate.
func (s *Staker) TotalStaked() (*uint256.Int, error) {
	return s.globalStatsService.TotalStaked()
}

// TotalPenalty returns the amount ever routed to the treasury.
func (s *Staker) TotalPenalty() (*uint256.Int, error) {
	return s.globalStatsService.TotalPenalty()
}

// CustodyBalance returns the token balance held by the ledger.
func (s *Staker) CustodyBalance() (*uint256.Int, error) {
	return s.token.BalanceOf(s.addr)
}

func (s *Staker) IsPaused() (bool, error) {
	return s.storage.IsPaused()
}

func (s *Staker) SchemaVersion() (uint64, error) {
	return s.storage.SchemaVersion()
}

// HolderCount returns number of accounts with an active position.
func (s *Staker) HolderCount() (uint64, error) {
	return s.storage.holders.Len()
}

// Positions visits every active position. It stops early when cb returns false.
func (s *Staker) Positions(cb func(holder vault.Address, p *position.Position) bool) error {
	return s.storage.holders.Iterate(func(holder vault.Address) (bool, error) {
		p, err := s.storage.GetPosition(holder)
		if err != nil {
			return false, err
		}
		return cb(holder, p), nil
	})
}

// CheckConservation verifies that the positions, the aggregate and the custody balance agree.
func (s *Staker) CheckConservation() error {
	sum := new(uint256.Int)
	if err := s.Positions(func(_ vault.Address, p *position.Position) bool {
		sum.Add(sum, p.TotalStaked)
		return true
	}); err != nil {
		return err
	}
	total, err := s.TotalStaked()
	if err != nil {
		return err
	}
	if !sum.Eq(total) {
		return errors.Errorf("positions sum %s, aggregate %s", sum.Dec(), total.Dec())
	}
	custody, err := s.CustodyBalance()
	if err != nil {
		return err
	}
	if !custody.Eq(total) {
		return errors.Errorf("custody %s, aggregate %s", custody.Dec(), total.Dec())
	}
	return nil
}
