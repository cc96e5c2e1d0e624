// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

// memStore is an ordered in-memory Store.
type memStore map[string]string

func (m memStore) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errMissing
}

func (m memStore) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m memStore) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m memStore) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m memStore) IsNotFound(err error) bool { return errors.Is(err, errMissing) }

func (m memStore) NewBatch() Batch { panic("not used") }

func (m memStore) Iterate(r Range) Iterator {
	var keys []string
	for k := range m {
		if k >= string(r.Start) && (len(r.Limit) == 0 || k < string(r.Limit)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	i := -1
	return &struct {
		NextFunc
		KeyFunc
		ValueFunc
		ReleaseFunc
		ErrorFunc
	}{
		func() bool { i++; return i < len(keys) },
		func() []byte { return []byte(keys[i]) },
		func() []byte { return []byte(m[keys[i]]) },
		func() {},
		func() error { return nil },
	}
}

func TestBucketGetter(t *testing.T) {
	m := memStore{"s1": "a", "s2": "b", "x1": "c"}

	tests := []struct {
		bucket Bucket
		key    string
		want   string
		found  bool
	}{
		{"", "s1", "a", true},
		{"s", "1", "a", true},
		{"s", "2", "b", true},
		{"s", "3", "", false},
		{"x", "1", "c", true},
		{"x", "2", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.bucket)+"/"+tt.key, func(t *testing.T) {
			g := tt.bucket.NewGetter(m)
			has, err := g.Has([]byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.found, has)

			v, err := g.Get([]byte(tt.key))
			if !tt.found {
				assert.True(t, g.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(v))
		})
	}
}

func TestBucketPutter(t *testing.T) {
	m := memStore{}
	p := Bucket("s").NewPutter(m)

	require.NoError(t, p.Put([]byte("1"), []byte("a")))
	assert.Equal(t, memStore{"s1": "a"}, m)

	require.NoError(t, p.Delete([]byte("1")))
	assert.Empty(t, m)
}

func TestBucketIterate(t *testing.T) {
	m := memStore{"s1": "a", "s2": "b", "s3": "c", "t1": "x", "r9": "y"}

	collect := func(it Iterator) string {
		defer it.Release()
		var parts []string
		for it.Next() {
			parts = append(parts, string(it.Key())+"="+string(it.Value()))
		}
		require.NoError(t, it.Error())
		return strings.Join(parts, ",")
	}

	assert.Equal(t, "1=a,2=b,3=c", collect(Bucket("s").Iterate(m, Range{})))
	assert.Equal(t, "2=b,3=c", collect(Bucket("s").Iterate(m, Range{Start: []byte("2")})))
	assert.Equal(t, "1=a", collect(Bucket("s").Iterate(m, Range{Limit: []byte("2")})))
	assert.Equal(t, "", collect(Bucket("q").Iterate(m, Range{})))
}
