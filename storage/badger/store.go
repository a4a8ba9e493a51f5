// Package badger adapts BadgerDB into an optional TreeStore backend for
// serving concurrent queries over large trees, alongside the mandatory
// file-based store in the parent package.
package badger

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/finrag/finrag/core"
	"github.com/finrag/finrag/storage"
)

// Store implements storage.TreeStore against a BadgerDB instance. Nodes
// are keyed by a blake2b hash of their structural id (keys.go); a
// parallel sequence of order keys records level-then-cluster order so
// Load can replay it without a full-keyspace scan and sort.
type Store struct {
	backend *Backend
	closed  bool
}

var _ storage.TreeStore = (*Store)(nil)

// NewStore wraps an already-open Backend as a TreeStore.
func NewStore(backend *Backend) *Store {
	return &Store{backend: backend}
}

// Save writes tree, d and cfg to the database, replacing whatever was
// previously stored under the node/order/index keys.
func (s *Store) Save(ctx context.Context, tree *core.Tree, d int, cfg storage.PersistedConfig) error {
	if s.closed {
		return storage.ErrStorageClosed
	}
	if tree == nil || tree.Empty() {
		return core.ErrTreeNotBuilt
	}

	if err := s.clear(); err != nil {
		return err
	}

	records := storage.DisassembleTree(tree)
	counts := tree.NodesPerLevel()
	idx := storage.Index{D: d, TotalNodes: tree.TotalNodes(), Levels: counts[:], Config: cfg}
	idxBytes, err := json.Marshal(idx)
	if err != nil {
		return storage.ErrSerializationFailed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		positionInLevel := make(map[int]int)
		for _, r := range records {
			buf := make([]byte, core.SizeNodeRecord(r))
			core.MarshalNodeRecord(r, buf)
			if err := tx.Set(nodeKey(r.ID), buf); err != nil {
				return err
			}

			pos := positionInLevel[r.Level]
			positionInLevel[r.Level] = pos + 1
			if err := tx.Set(makeOrderKey(r.Level, pos), nodeKey(r.ID)); err != nil {
				return err
			}
		}
		if err := tx.Set(makeTreeIndexKey(), idxBytes); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Load restores the tree, dimension and config most recently saved.
func (s *Store) Load(ctx context.Context) (*core.Tree, int, storage.PersistedConfig, error) {
	if s.closed {
		return nil, 0, storage.PersistedConfig{}, storage.ErrStorageClosed
	}

	var idx storage.Index
	var records []core.NodeRecord

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTreeIndexKey())
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return core.ErrIndexNotFound
			}
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &idx)
		}); err != nil {
			return storage.ErrSerializationFailed
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeOrderPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var key []byte
			if err := iter.Item().Value(func(val []byte) error {
				key = bytes.Clone(val)
				return nil
			}); err != nil {
				return err
			}
			nodeItem, err := tx.Get(key)
			if err != nil {
				return err
			}
			if err := nodeItem.Value(func(val []byte) error {
				r, _, err := core.UnmarshalNodeRecord(val)
				if err != nil {
					return err
				}
				records = append(records, r)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, 0, storage.PersistedConfig{}, err
	}

	tree, err := storage.AssembleTree(records)
	if err != nil {
		return nil, 0, storage.PersistedConfig{}, err
	}
	return tree, idx.D, idx.Config, nil
}

// Close closes the underlying Backend.
func (s *Store) Close() error {
	s.closed = true
	return s.backend.Close()
}

// clear drops every node, order and index key before a fresh Save, so
// a tree shrinking between builds doesn't leave orphaned records
// behind.
func (s *Store) clear() error {
	for _, prefix := range [][]byte{[]byte(nodePrefix + ":"), makeOrderPrefix(), makeTreeIndexKey()} {
		if err := s.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			defer iter.Close()

			var keys [][]byte
			for iter.Rewind(); iter.Valid(); iter.Next() {
				keys = append(keys, bytes.Clone(iter.Item().Key()))
			}
			for _, k := range keys {
				if err := tx.Delete(k); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true); err != nil {
			return err
		}
	}
	return nil
}
