// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/kv"
	"github.com/sapienio/stakevault/vault"
)

// Stage abstracts the accumulated storage changes of a state.
type Stage struct {
	db      kv.Store
	keys    [][]byte
	changes map[string]rlp.RawValue
}

func newStage(db kv.Store, changes map[storageKey]rlp.RawValue) *Stage {
	stage := &Stage{
		db:      db,
		keys:    make([][]byte, 0, len(changes)),
		changes: make(map[string]rlp.RawValue, len(changes)),
	}
	for k, v := range changes {
		dbKey := k.dbKey()
		stage.keys = append(stage.keys, dbKey)
		stage.changes[string(dbKey)] = v
	}
	sort.Slice(stage.keys, func(i, j int) bool {
		return bytes.Compare(stage.keys[i], stage.keys[j]) < 0
	})
	return stage
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes the digest of the change set. Identical changes always yield the same hash.
func (s *Stage) Hash() vault.Bytes32 {
	return vault.Blake2bFn(func(w io.Writer) {
		for _, k := range s.keys {
			w.Write(k)
			w.Write(s.changes[string(k)])
		}
	})
}

// Commit writes all changes into the underlying store as one batch.
func (s *Stage) Commit() (vault.Bytes32, error) {
	batch := s.db.NewBatch()
	putter := StorageBucket.NewPutter(batch)

	for _, k := range s.keys {
		v := s.changes[string(k)]
		var err error
		if len(v) == 0 {
			err = putter.Delete(k)
		} else {
			err = putter.Put(k, v)
		}
		if err != nil {
			return vault.Bytes32{}, errors.Wrap(err, "stage")
		}
	}
	if err := batch.Write(); err != nil {
		return vault.Bytes32{}, errors.Wrap(err, "commit stage")
	}
	return s.Hash(), nil
}
