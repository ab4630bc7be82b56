// Package cache implements a content-addressed incremental build cache for
// batch conversions: a file's output is only regenerated when its xxh3 hash
// has changed since the last run, backed by an embedded Badger key/value
// store.
package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/zeebo/xxh3"
)

// ErrClosed is returned by Cache methods once Close has been called.
var ErrClosed = errors.New("cache: closed")

// Cache is a content-addressed key/value store keyed by input path, storing
// the xxh3 hash of the input bytes last seen for that path.
type Cache struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger-backed cache rooted at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Hash returns the 128-bit xxh3 hash of data, as 16 raw bytes.
func Hash(data []byte) [16]byte {
	h := xxh3.Hash128(data)
	var out [16]byte
	binary.BigEndian.PutUint64(out[0:8], h.Hi)
	binary.BigEndian.PutUint64(out[8:16], h.Lo)
	return out
}

// Unchanged reports whether data's hash matches the hash last recorded for
// key. A key never seen before is reported as changed.
func (c *Cache) Unchanged(key string, data []byte) (bool, error) {
	if c.db == nil {
		return false, ErrClosed
	}
	want := Hash(data)

	var got []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			got = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return bytes.Equal(got, want[:]), nil
}

// Record stores data's hash under key, overwriting any previous entry.
func (c *Cache) Record(key string, data []byte) error {
	if c.db == nil {
		return ErrClosed
	}
	h := Hash(data)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), h[:])
	})
}
