package events

import (
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/wledrelay/internal/model"
)

// Subscriber receives raw event payloads. cancel unsubscribes and closes the
// channel; it is safe to call more than once.
type Subscriber interface {
	Subscribe(topic string) (ch <-chan []byte, cancel func(), err error)
	Close() error
}

// DecodeEffectUpdated parses a TopicEffectUpdated payload.
func DecodeEffectUpdated(data []byte) (*model.EffectRecord, error) {
	var evt EffectUpdated
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("decoding effect event: %w", err)
	}
	if evt.Record == nil {
		return nil, fmt.Errorf("effect event has no record")
	}
	return evt.Record, nil
}
