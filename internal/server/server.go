package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/wledrelay/internal/events"
	"github.com/alfredjeanlab/wledrelay/internal/kv"
	"github.com/alfredjeanlab/wledrelay/internal/model"
)

// RelayServer serves the effect relay. It holds no effect state of its own;
// every read and write goes to the store bound under bindingName.
type RelayServer struct {
	bindings    *kv.Bindings
	bindingName string
	publisher   events.Publisher
	sseHub      *sseHub

	now func() time.Time
}

// NewRelayServer returns a RelayServer that resolves its store from bindings
// by name on every request. A nil publisher disables event publishing.
func NewRelayServer(bindings *kv.Bindings, bindingName string, p events.Publisher) *RelayServer {
	if p == nil {
		p = events.NoopPublisher{}
	}
	return &RelayServer{
		bindings:    bindings,
		bindingName: bindingName,
		publisher:   p,
		sseHub:      newSSEHub(),
		now:         time.Now,
	}
}

// BindingName returns the name the relay resolves its store under.
func (s *RelayServer) BindingName() string { return s.bindingName }

// Bound reports whether a store is currently registered under the binding name.
func (s *RelayServer) Bound() bool {
	_, ok := s.bindings.Lookup(s.bindingName)
	return ok
}

// store resolves the bound store or returns a configError.
func (s *RelayServer) store() (kv.Store, error) {
	st, ok := s.bindings.Lookup(s.bindingName)
	if !ok {
		return nil, configError{binding: s.bindingName}
	}
	return st, nil
}

// publishUpdate fans a stored record out to NATS and SSE clients.
// Both are best-effort; failures are logged but never fail the write.
func (s *RelayServer) publishUpdate(ctx context.Context, rec *model.EffectRecord, payload []byte) {
	evt := events.EffectUpdated{Record: rec, Binding: s.bindingName}
	if err := s.publisher.Publish(ctx, events.TopicEffectUpdated, evt); err != nil {
		slog.Warn("failed to publish event",
			"topic", events.TopicEffectUpdated,
			"request_id", RequestIDFrom(ctx),
			"error", err,
		)
	}
	s.sseHub.broadcast(payload)
}
