// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs the ledger store with goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/sapienio/stakevault/kv"
)

var _ kv.StoreCloser = (*LevelDB)(nil)

const minCacheMB = 16

// Options for opening a LevelDB.
type Options struct {
	CacheSize              int // MiB, split between block cache and write buffers
	OpenFilesCacheCapacity int
	ReadOnly               bool
}

var (
	readOpt = opt.ReadOptions{}
	// single puts are only used outside ledger commits
	putOpt = opt.WriteOptions{}
	// commits are durable once Write returns
	commitOpt = opt.WriteOptions{Sync: true}
)

// LevelDB is a kv.Store over a goleveldb instance.
type LevelDB struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New opens the database at path, creating it unless opts.ReadOnly is set.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, opts.ReadOnly)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage [%v]", path)
	}
	db, err := open(stg, opts)
	if err != nil {
		stg.Close()
		return nil, err
	}
	return db, nil
}

// NewMem returns a volatile database, mostly for tests and --mem-db runs.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheMB := max(opts.CacheSize, minCacheMB)
	fdCache := max(opts.OpenFilesCacheCapacity, 16)

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: fdCache,
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		WriteBuffer:            cacheMB / 4 * opt.MiB, // two of these live at the same time
		Filter:                 filter.NewBloomFilter(10),
		ReadOnly:               opts.ReadOnly,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db: db, stg: stg}, nil
}

// IsNotFound reports whether err is the missing key error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &putOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &putOpt)
}

// Close releases the database and the underlying storage, dropping the file lock.
// Any later call fails.
func (ldb *LevelDB) Close() error {
	if err := ldb.db.Close(); err != nil {
		ldb.stg.Close()
		return err
	}
	return ldb.stg.Close()
}

// NewBatch returns a batch written with fsync.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{db: ldb.db, b: new(leveldb.Batch)}
}

// Iterate walks the keys in [r.Start, r.Limit).
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

// Compact compacts the whole key space, reclaiming what rewrites such as a
// schema migration left behind.
func (ldb *LevelDB) Compact() error {
	return errors.Wrap(ldb.db.CompactRange(util.Range{}), "compact leveldb")
}

// Stats returns the leveldb engine counters.
func (ldb *LevelDB) Stats() (*leveldb.DBStats, error) {
	var stats leveldb.DBStats
	if err := ldb.db.Stats(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int {
	return b.b.Len()
}

func (b *batch) Write() error {
	return b.db.Write(b.b, &commitOpt)
}
