// Package events fans effect changes out to other processes over NATS.
package events

import (
	"context"

	"github.com/alfredjeanlab/wledrelay/internal/model"
)

// Event topic constants
const (
	// TopicPrefix scopes every subject the relay publishes on.
	TopicPrefix = "wled."

	TopicEffectUpdated = "wled.effect.updated"
)

// EffectUpdated is published after a write lands in the store.
type EffectUpdated struct {
	Record  *model.EffectRecord `json:"record"`
	Binding string              `json:"binding"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
