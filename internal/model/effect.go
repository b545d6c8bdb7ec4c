// Package model defines the effect record relayed between the controller and
// the dashboard.
package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// CurrentEffectKey is the single key the relay reads and writes.
const CurrentEffectKey = "current_effect"

// TimestampLayout matches the UTC millisecond form produced by browsers'
// Date.toISOString, e.g. "2024-01-01T00:00:00.000Z".
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// EmptyRecordJSON is returned when no effect has been stored yet.
var EmptyRecordJSON = []byte(`{"effect":null,"updated_at":null}`)

// EffectRecord is the stored value under CurrentEffectKey. Effect is kept as
// raw JSON so whatever the writer sent is relayed verbatim.
type EffectRecord struct {
	Effect    json.RawMessage `json:"effect"`
	UpdatedAt string          `json:"updated_at"`
}

// Timestamp formats t the way updated_at defaults are written.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// EffectString returns the effect as a plain string when it is a JSON string,
// or its raw JSON text otherwise.
func (r *EffectRecord) EffectString() string {
	var s string
	if err := json.Unmarshal(r.Effect, &s); err == nil {
		return s
	}
	return string(r.Effect)
}

// Marshal serializes the record to the stored JSON form.
func (r *EffectRecord) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// ParseRecord decodes a stored value. An empty value decodes to nil.
func ParseRecord(data []byte) (*EffectRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var rec EffectRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
