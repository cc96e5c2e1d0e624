// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker/position"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

var (
	slotPositions     = nameToSlot("positions")
	slotHolders       = nameToSlot("holders")
	slotSchemaVersion = nameToSlot("schema-version")
	slotPaused        = nameToSlot("paused")
)

func nameToSlot(name string) vault.Bytes32 {
	return vault.BytesToBytes32([]byte(name))
}

// storage represents the root storage for the Staker contract.
type storage struct {
	context   *solidity.Context
	positions *solidity.Mapping[vault.Address, *position.Position]
	holders   *solidity.AddressSet
	version   *solidity.Raw[uint64]
	paused    *solidity.Raw[bool]
}

// newStorage creates a new instance of storage.
func newStorage(addr vault.Address, state *state.State) *storage {
	context := solidity.NewContext(addr, state)
	return &storage{
		context:   context,
		positions: solidity.NewMapping[vault.Address, *position.Position](context, slotPositions),
		holders:   solidity.NewAddressSet(context, slotHolders),
		version:   solidity.NewRaw[uint64](context, slotSchemaVersion),
		paused:    solidity.NewRaw[bool](context, slotPaused),
	}
}

// GetPosition returns the position of addr, an empty one if absent.
func (s *storage) GetPosition(addr vault.Address) (*position.Position, error) {
	p, err := s.positions.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(uint256.Int)
	}
	if p.CooldownAmount == nil {
		p.CooldownAmount = new(uint256.Int)
	}
	return p, nil
}

// SetPosition stores p, or deletes the record when p holds no stake.
func (s *storage) SetPosition(addr vault.Address, p *position.Position) error {
	if p.IsEmpty() {
		s.positions.Delete(addr)
		if _, err := s.holders.Remove(addr); err != nil {
			return errors.Wrap(err, "failed to remove holder")
		}
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.positions.Set(addr, p); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	if _, err := s.holders.Add(addr); err != nil {
		return errors.Wrap(err, "failed to add holder")
	}
	return nil
}

func (s *storage) SchemaVersion() (uint64, error) {
	v, err := s.version.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get schema version")
	}
	return v, nil
}

func (s *storage) SetSchemaVersion(v uint64) error {
	if err := s.version.Upsert(v); err != nil {
		return errors.Wrap(err, "failed to set schema version")
	}
	return nil
}

func (s *storage) IsPaused() (bool, error) {
	p, err := s.paused.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get paused flag")
	}
	return p, nil
}

func (s *storage) SetPaused(paused bool) error {
	if !paused {
		s.paused.Delete()
		return nil
	}
	if err := s.paused.Upsert(true); err != nil {
		return errors.Wrap(err, "failed to set paused flag")
	}
	return nil
}
