// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/lvldb"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/vault"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(vault.StakerAddress, state.New(db)))
}

func TestService_AddRemoveStake(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.AddStake(uint256.NewInt(1000)))
	require.NoError(t, svc.AddStake(uint256.NewInt(500)))
	require.NoError(t, svc.RemoveStake(uint256.NewInt(300)))

	total, err := svc.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1200), total)

	assert.ErrorIs(t, svc.RemoveStake(uint256.NewInt(1201)), solidity.ErrUint256Underflow)

	svc.Reset(uint256.NewInt(7))
	total, err = svc.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(7), total)
}

func TestService_RecordPenalty(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.RecordPenalty(uint256.NewInt(20)))
	require.NoError(t, svc.RecordPenalty(uint256.NewInt(5)))

	penalty, err := svc.TotalPenalty()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(25), penalty)

	// penalties do not count toward the staked total
	total, err := svc.TotalStaked()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
