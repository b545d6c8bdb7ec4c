package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// ValidationError reports a rejected write. Message is returned to the
// client as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	errInvalidJSON   = &ValidationError{Message: "Invalid JSON"}
	errNotAnObject   = &ValidationError{Message: "request body must be a JSON object"}
	errMissingEffect = &ValidationError{Field: "effect", Message: `Missing "effect" field`}
	errBadUpdatedAt  = &ValidationError{Field: "updated_at", Message: `"updated_at" must be a string`}
)

// ParseEffectInput builds the record to store from a POST body. now supplies
// updated_at when the writer omitted it. Any failure is a *ValidationError.
func ParseEffectInput(body []byte, now time.Time) (*EffectRecord, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	if len(body) == 0 || body[0] != '{' {
		return nil, errNotAnObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errInvalidJSON
	}

	effect, ok := fields["effect"]
	if !ok || isFalsy(effect) {
		return nil, errMissingEffect
	}

	rec := &EffectRecord{Effect: effect, UpdatedAt: Timestamp(now)}
	if raw, ok := fields["updated_at"]; ok && !isNull(raw) {
		var ts string
		if err := json.Unmarshal(raw, &ts); err != nil {
			return nil, errBadUpdatedAt
		}
		rec.UpdatedAt = ts
	}
	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// isFalsy reports whether a JSON value would be rejected as "no effect":
// null, false, the empty string and numeric zero.
func isFalsy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "null", "false", `""`:
		return true
	}
	if len(v) > 0 && (v[0] == '-' || (v[0] >= '0' && v[0] <= '9')) {
		f, err := strconv.ParseFloat(string(v), 64)
		return err == nil && f == 0
	}
	return false
}
