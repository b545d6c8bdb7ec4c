// Package natskv implements kv.Store on a NATS JetStream key-value bucket.
package natskv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/alfredjeanlab/wledrelay/internal/kv"
)

// Store reads and writes one JetStream KV bucket. The bucket keeps a single
// revision per key.
type Store struct {
	conn   *nats.Conn
	bucket jetstream.KeyValue
}

var _ kv.Store = (*Store)(nil)

// New connects to NATS at url and opens bucket, creating it when missing.
func New(ctx context.Context, url, bucket string) (*Store, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	s, err := NewWithConn(ctx, nc, bucket)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return s, nil
}

// NewWithConn opens bucket on an existing connection. Close closes nc.
func NewWithConn(ctx context.Context, nc *nats.Conn, bucket string) (*Store, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}
	b, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "wledrelay effect slot",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("open kv bucket %s: %w", bucket, err)
	}
	return &Store{conn: nc, bucket: b}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.bucket.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("nats kv get %s: %w", key, err)
	}
	return entry.Value(), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.bucket.Put(ctx, key, value); err != nil {
		return fmt.Errorf("nats kv put %s: %w", key, err)
	}
	return nil
}

// Close closes the NATS connection.
func (s *Store) Close() error {
	s.conn.Close()
	return nil
}
