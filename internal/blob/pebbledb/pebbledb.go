// Package pebbledb is the embedded blob backend, storing blobs in a
// local Pebble database. It is the default backend for single-node
// deployments that need durability without running an OxiDB server.
package pebbledb

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/parisxmas/partnerhub/internal/blob"
)

// Store persists blobs in a Pebble database.
type Store struct {
	db *pebble.DB
}

var _ blob.Store = (*Store)(nil)

// Open opens (creating if needed) a Pebble database at dirname. Pass
// opts with vfs.NewMem to run fully in memory, as the tests do.
func Open(dirname string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(dirname, opts)
	if err != nil {
		return nil, fmt.Errorf("pebbledb: open %s: %w", dirname, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	value, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pebbledb: get %s: %w", key, err)
	}
	defer closer.Close()
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("pebbledb: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebbledb: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound([]byte(prefix)),
	})
	if err != nil {
		return nil, fmt.Errorf("pebbledb: list %s: iterator: %w", prefix, err)
	}
	defer iter.Close()

	var out []blob.Entry
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		out = append(out, blob.Entry{Key: string(iter.Key()), Value: value})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("pebbledb: list %s: %w", prefix, err)
	}
	return out, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("pebbledb: close: %w", err)
	}
	return nil
}

// prefixUpperBound returns the smallest key greater than every key
// with the given prefix, or nil when the prefix is all 0xff.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}
