// Package memdb implements kv.Store in process memory using go-memdb.
package memdb

import (
	"context"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/alfredjeanlab/wledrelay/internal/kv"
)

const (
	table = "kv"
	index = "id"
)

type entry struct {
	Key   string
	Value []byte
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		table: {
			Name: table,
			Indexes: map[string]*memdb.IndexSchema{
				index: {
					Name:    index,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

// Store keeps values in an in-memory radix tree. Safe for concurrent use.
type Store struct {
	db *memdb.MemDB
}

var _ kv.Store = (*Store)(nil)

// New returns an empty store.
func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(table, index, key)
	if err != nil {
		return nil, fmt.Errorf("memdb get %s: %w", key, err)
	}
	if raw == nil {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), raw.(*entry).Value...), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(table, &entry{Key: key, Value: append([]byte(nil), value...)}); err != nil {
		return fmt.Errorf("memdb put %s: %w", key, err)
	}
	txn.Commit()
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
