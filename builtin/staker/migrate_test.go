// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/builtin/solidity"
	"github.com/sapienio/stakevault/builtin/staker/multiplier"
	"github.com/sapienio/stakevault/vault"
)

var carol = vault.BytesToAddress([]byte("carol"))

// seedLegacy rewinds env to schema version 1 and writes the given records with custody to match.
func seedLegacy(t *testing.T, env *testEnv, records map[vault.Address]*positionV1) {
	storage := env.staker.storage
	legacy := solidity.NewMapping[vault.Address, *positionV1](storage.context, slotPositions)

	custody := new(uint256.Int)
	for holder, rec := range records {
		require.NoError(t, legacy.Set(holder, rec))
		_, err := storage.holders.Add(holder)
		require.NoError(t, err)
		if rec.TotalStaked != nil {
			custody.Add(custody, rec.TotalStaked)
		}
	}
	require.NoError(t, env.token.Mint(vault.StakerAddress, custody))
	require.NoError(t, storage.SetSchemaVersion(1))
}

func TestStaker_Migrate(t *testing.T) {
	env := newTestStaker(t)

	seedLegacy(t, env, map[vault.Address]*positionV1{
		alice: {
			TotalStaked:       vault.Tokens(2000),
			WeightedStartTime: t0,
			EffectiveLockup:   vault.LockupPeriod90Days,
			Multiplier:        0,
			CooldownAmount:    new(uint256.Int),
		},
		bob: {
			TotalStaked:    new(uint256.Int),
			CooldownAmount: new(uint256.Int),
		},
		carol: {
			TotalStaked:       vault.Tokens(1000),
			WeightedStartTime: t0,
			EffectiveLockup:   400 * vault.Day,
			Multiplier:        12000,
			CooldownAmount:    vault.Tokens(5000),
			CooldownStart:     t0 + vault.Day,
		},
	})

	_, err := env.staker.Stake(alice, vault.Tokens(1000), vault.LockupPeriod30Days, t0)
	assert.ErrorIs(t, err, ErrSchemaOutdated)
	_, err = env.staker.ProcessPenalty(authority, alice, vault.Tokens(1), t0)
	assert.ErrorIs(t, err, ErrSchemaOutdated)

	var calls []uint64
	now := t0 + 10*vault.Day
	report, err := env.staker.Migrate(now, func(done, total uint64) {
		assert.Equal(t, uint64(3), total)
		calls = append(calls, done)
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, calls)

	assert.Equal(t, uint64(1), report.From)
	assert.Equal(t, SchemaVersion, report.To)
	assert.Equal(t, uint64(2), report.Migrated)
	assert.Equal(t, uint64(1), report.Repaired)
	assert.Equal(t, uint64(1), report.Dropped)
	assert.Equal(t, vault.Tokens(3000), report.Total)

	AssertPosition(env.staker, alice, now).
		Total(vault.Tokens(2000)).
		Multiplier(multiplier.Calculate(vault.Tokens(2000), vault.LockupPeriod90Days)).
		Assert(t)
	AssertPosition(env.staker, carol, now).
		Total(vault.Tokens(1000)).
		Cooldown(vault.Tokens(1000)).
		Lockup(vault.MaxLockupPeriod).
		Multiplier(12000).
		Assert(t)

	p, err := env.staker.GetPosition(carol)
	require.NoError(t, err)
	assert.Equal(t, now, p.LastUpdateTime)

	count, err := env.staker.HolderCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
	require.NoError(t, env.staker.CheckConservation())

	events := env.staker.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventMigrated, events[0].Kind)

	// second run is a no-op
	report, err = env.staker.Migrate(now, nil)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, report.From)
	assert.Equal(t, SchemaVersion, report.To)
	assert.Zero(t, report.Migrated)
	assert.Empty(t, env.staker.Events())

	_, err = env.staker.Stake(bob, vault.Tokens(1000), vault.LockupPeriod30Days, now)
	require.NoError(t, err)
}

func TestStaker_Migrate_UnknownVersion(t *testing.T) {
	env := newTestStaker(t)
	require.NoError(t, env.staker.storage.SetSchemaVersion(7))

	_, err := env.staker.Migrate(t0, nil)
	assert.ErrorContains(t, err, "unsupported schema version 7")

	version, err := env.staker.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), version)
}
