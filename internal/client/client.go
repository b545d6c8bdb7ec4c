// Package client provides a transport-agnostic interface for the effect relay
// and an HTTP/JSON implementation that talks to its REST surface.
package client

import (
	"context"

	"github.com/alfredjeanlab/wledrelay/internal/model"
)

// RelayClient is the interface the CLI commands use to talk to a running
// relay. It is implemented by HTTPClient.
type RelayClient interface {
	// GetEffect returns the current record, or nil when nothing is stored.
	GetEffect(ctx context.Context) (*model.EffectRecord, error)
	// GetEffectRaw returns the GET /api/effect body unchanged.
	GetEffectRaw(ctx context.Context) ([]byte, error)
	// SetEffect writes a new record. An empty updatedAt lets the server
	// stamp the write.
	SetEffect(ctx context.Context, req *SetEffectRequest) error
	Health(ctx context.Context) (*HealthResponse, error)
	Close() error
}

// SetEffectRequest is the POST /api/effect body.
type SetEffectRequest struct {
	Effect    string `json:"effect"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// HealthResponse is the GET /healthz body.
type HealthResponse struct {
	Status    string `json:"status"`
	KVBinding string `json:"kv_binding"`
	KVBound   bool   `json:"kv_bound"`
}
