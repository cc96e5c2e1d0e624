// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/vault"
)

type indexKey uint64

func (k indexKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// AddressSet is an enumerable set of addresses. Removal swaps the last item into the freed index,
// so iteration order is not stable across removals.
type AddressSet struct {
	indexes *Mapping[vault.Address, uint64] // 1 based, 0 means absent
	items   *Mapping[indexKey, vault.Address]
	length  *Raw[uint64]
}

func NewAddressSet(context *Context, pos vault.Bytes32) *AddressSet {
	return &AddressSet{
		indexes: NewMapping[vault.Address, uint64](context, vault.Blake2b(pos.Bytes(), []byte("indexes"))),
		items:   NewMapping[indexKey, vault.Address](context, vault.Blake2b(pos.Bytes(), []byte("items"))),
		length:  NewRaw[uint64](context, vault.Blake2b(pos.Bytes(), []byte("length"))),
	}
}

func (s *AddressSet) Len() (uint64, error) {
	return s.length.Get()
}

func (s *AddressSet) Contains(addr vault.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	return idx != 0, nil
}

// Add inserts addr. It returns false if addr was already present.
func (s *AddressSet) Add(addr vault.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	if idx != 0 {
		return false, nil
	}
	length, err := s.length.Get()
	if err != nil {
		return false, err
	}
	if err := s.items.Set(indexKey(length), addr); err != nil {
		return false, err
	}
	if err := s.indexes.Set(addr, length+1); err != nil {
		return false, err
	}
	return true, s.length.Upsert(length + 1)
}

// Remove deletes addr. It returns false if addr was absent.
func (s *AddressSet) Remove(addr vault.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	if idx == 0 {
		return false, nil
	}
	length, err := s.length.Get()
	if err != nil {
		return false, err
	}
	if length == 0 {
		return false, errors.New("address set: index without items")
	}

	last := length - 1
	if idx-1 != last {
		moved, err := s.items.Get(indexKey(last))
		if err != nil {
			return false, err
		}
		if err := s.items.Set(indexKey(idx-1), moved); err != nil {
			return false, err
		}
		if err := s.indexes.Set(moved, idx); err != nil {
			return false, err
		}
	}
	s.items.Delete(indexKey(last))
	s.indexes.Delete(addr)

	if last == 0 {
		s.length.Delete()
		return true, nil
	}
	return true, s.length.Upsert(last)
}

// Iterate visits all items. It stops early when cb returns false.
func (s *AddressSet) Iterate(cb func(vault.Address) (bool, error)) error {
	length, err := s.length.Get()
	if err != nil {
		return err
	}
	for i := range length {
		addr, err := s.items.Get(indexKey(i))
		if err != nil {
			return err
		}
		next, err := cb(addr)
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
	}
	return nil
}
