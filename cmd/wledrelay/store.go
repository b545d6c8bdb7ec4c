package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/wledrelay/internal/config"
	"github.com/alfredjeanlab/wledrelay/internal/kv"
	"github.com/alfredjeanlab/wledrelay/internal/kv/memdb"
	"github.com/alfredjeanlab/wledrelay/internal/kv/natskv"
	"github.com/alfredjeanlab/wledrelay/internal/kv/postgres"
	"github.com/alfredjeanlab/wledrelay/internal/kv/s3kv"
)

// openStore opens the backend named by cfg.KVBackend. It returns a nil store
// when no backend is configured.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.KVBackend {
	case config.BackendNone:
		return nil, nil
	case config.BackendMemory:
		return memdb.New()
	case config.BackendPostgres:
		return postgres.New(cfg.DatabaseURL)
	case config.BackendNATS:
		return natskv.New(ctx, cfg.NATSURL, cfg.NATSBucket)
	case config.BackendS3:
		return s3kv.New(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
	default:
		return nil, fmt.Errorf("unknown kv backend %q", cfg.KVBackend)
	}
}

// newBindings registers st under cfg.KVBinding. A nil st leaves the registry
// empty so every effect request reports the missing binding.
func newBindings(cfg *config.Config, st kv.Store) *kv.Bindings {
	b := kv.NewBindings()
	if st != nil {
		b.Bind(cfg.KVBinding, st)
	}
	return b
}
