// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/lvldb"
	"github.com/sapienio/stakevault/state"
	"github.com/sapienio/stakevault/test/datagen"
	"github.com/sapienio/stakevault/vault"
)

type TestStruct struct {
	Field1 uint64
	Field2 *uint256.Int
	Addr1  vault.Address
	Bytes1 vault.Bytes32
}

// newTestContext returns a fresh Context over an in-memory DB.
func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(vault.Address{1}, state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	mapping := NewMapping[vault.Bytes32, *TestStruct](ctx, vault.Bytes32{1})

	key := datagen.RandomHash()

	// missing keys decode into a fresh zero struct
	value, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, uint64(0), value.Field1)

	exists, err := mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	stored := &TestStruct{
		Field1: 100,
		Field2: uint256.NewInt(200),
		Addr1:  datagen.RandAddress(),
		Bytes1: datagen.RandomHash(),
	}
	require.NoError(t, mapping.Set(key, stored))

	value, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, stored.Field1, value.Field1)
	assert.Equal(t, stored.Field2.Uint64(), value.Field2.Uint64())
	assert.Equal(t, stored.Addr1, value.Addr1)
	assert.Equal(t, stored.Bytes1, value.Bytes1)

	mapping.Delete(key)
	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMappingDistinctBases(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[vault.Address, uint64](ctx, vault.Bytes32{1})
	b := NewMapping[vault.Address, uint64](ctx, vault.Bytes32{2})

	addr := datagen.RandAddress()
	require.NoError(t, a.Set(addr, 1))

	v, err := b.Get(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	raw := NewRaw[bool](ctx, vault.BytesToBytes32([]byte("paused")))

	v, err := raw.Get()
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, raw.Upsert(true))
	v, err = raw.Get()
	require.NoError(t, err)
	assert.True(t, v)

	raw.Delete()
	v, err = raw.Get()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	value := NewUint256(ctx, vault.Bytes32{0o1})

	value.Set(uint256.NewInt(1000))
	got, err := value.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1000), got)

	assert.NoError(t, value.Add(uint256.NewInt(500)))
	got, err = value.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1500), got)

	assert.NoError(t, value.Sub(uint256.NewInt(200)))
	got, err = value.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1300), got)

	assert.ErrorIs(t, value.Sub(uint256.NewInt(1301)), ErrUint256Underflow)

	max := new(uint256.Int).SetAllOne()
	value.Set(max)
	assert.ErrorIs(t, value.Add(uint256.NewInt(1)), ErrUint256Overflow)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	slot := NewAddress(ctx, vault.BytesToBytes32([]byte("admin")))

	addr := datagen.RandAddress()
	slot.Set(&addr)
	got, err := slot.Get()
	assert.NoError(t, err)
	assert.Equal(t, addr, got)

	slot.Set(nil)
	got, err = slot.Get()
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestAddressSet(t *testing.T) {
	ctx := newTestContext(t)
	set := NewAddressSet(ctx, vault.BytesToBytes32([]byte("holders")))

	addrs := []vault.Address{datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()}
	for _, a := range addrs {
		added, err := set.Add(a)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := set.Add(addrs[0])
	require.NoError(t, err)
	assert.False(t, added, "duplicate add")

	length, err := set.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), length)

	removed, err := set.Remove(addrs[0])
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = set.Remove(addrs[0])
	require.NoError(t, err)
	assert.False(t, removed)

	var seen []vault.Address
	require.NoError(t, set.Iterate(func(a vault.Address) (bool, error) {
		seen = append(seen, a)
		return true, nil
	}))
	assert.ElementsMatch(t, addrs[1:], seen)

	for _, a := range addrs[1:] {
		contains, err := set.Contains(a)
		require.NoError(t, err)
		assert.True(t, contains)
		_, err = set.Remove(a)
		require.NoError(t, err)
	}
	length, err = set.Len()
	require.NoError(t, err)
	assert.Zero(t, length)
}
