// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	filedb, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{CacheSize: 16, OpenFilesCacheCapacity: 16})
	require.NoError(t, err)
	defer filedb.Close()

	memdb, err := NewMem()
	require.NoError(t, err)
	defer memdb.Close()

	for _, db := range []*LevelDB{filedb, memdb} {
		assert.NoError(t, db.Put(key, value))

		ret1, err := db.Get(key)
		assert.NoError(t, err)

		ret2, err := db.Has(key)
		assert.NoError(t, err)

		ret3, err := db.Has(inValidKey)
		assert.NoError(t, err)

		assert.NoError(t, db.Delete(key))

		_, ret4 := db.Get(key)

		tests := []struct {
			ret      any
			expected any
		}{
			{ret1, value},
			{ret2, true},
			{ret3, false},
			{db.IsNotFound(ret4), true},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.ret)
		}
	}
}

func TestLevelDBBatch(t *testing.T) {
	var (
		key   = []byte("123")
		value = []byte("456")
	)
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(t, batch.Put(key, value))
	assert.NoError(t, batch.Put([]byte("gone"), value))
	assert.NoError(t, batch.Delete([]byte("gone")))
	assert.Equal(t, 3, batch.Len())

	has, err := db.Has(key)
	assert.NoError(t, err)
	assert.False(t, has, "batch must not be visible before write")

	assert.NoError(t, batch.Write())

	ret, err := db.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, value, ret)

	has, err = db.Has([]byte("gone"))
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestLevelDBBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bucket := kv.Bucket("p")
	putter := bucket.NewPutter(db)
	for _, k := range []string{"b", "a", "c"} {
		assert.NoError(t, putter.Put([]byte(k), []byte("v"+k)))
	}
	assert.NoError(t, db.Put([]byte("q1"), []byte("other")))

	iter := bucket.Iterate(db, kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		assert.Equal(t, "v"+string(iter.Key()), string(iter.Value()))
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestLevelDBReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvldb")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	ro, err := New(path, Options{ReadOnly: true})
	require.NoError(t, err)
	defer ro.Close()

	v, err := ro.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
	assert.Error(t, ro.Put([]byte("k"), []byte("w")))

	_, err = New(filepath.Join(t.TempDir(), "missing"), Options{ReadOnly: true})
	assert.Error(t, err)
}

func TestLevelDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvldb")

	for i := range 3 {
		db, err := New(path, Options{})
		require.NoError(t, err, "open #%d", i)
		require.NoError(t, db.Put([]byte{byte(i)}, []byte("v")))
		require.NoError(t, db.Close())
	}

	db, err := New(path, Options{ReadOnly: true})
	require.NoError(t, err)
	for i := range 3 {
		has, err := db.Has([]byte{byte(i)})
		require.NoError(t, err)
		assert.True(t, has)
	}
	require.NoError(t, db.Close())
}

func TestLevelDBCompactAndStats(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{})
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	for i := range 1000 {
		require.NoError(t, batch.Put([]byte{byte(i >> 8), byte(i)}, make([]byte, 100)))
	}
	require.NoError(t, batch.Write())
	require.NoError(t, db.Compact())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Positive(t, stats.LevelSizes.Sum())
}
