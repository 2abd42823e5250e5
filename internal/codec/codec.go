// Package codec converts records between their in-memory form and the
// JSON payloads stored in the blob backend. Date fields travel as
// ISO-8601 strings with millisecond precision; fields the current
// schema does not know about survive a decode/encode round trip
// unchanged.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// isoMillis is the wire format for timestamps: UTC, millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Timestamp is a time.Time that marshals to ISO-8601 with milliseconds.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to millisecond precision,
// matching what a store round trip preserves.
func Now() Timestamp {
	return Timestamp{time.Now().UTC().Truncate(time.Millisecond)}
}

// At wraps t as a Timestamp, truncated to millisecond precision.
func At(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(t.UTC().Format(isoMillis))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`null`)) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{Field: "timestamp", Err: err}
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return &DecodeError{Field: "timestamp", Err: fmt.Errorf("parse %q: %w", s, err)}
	}
	t.Time = parsed.UTC()
	return nil
}

// Equal reports whether two timestamps name the same instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.Time.Equal(o.Time)
}

// DecodeError is returned when a stored payload cannot be decoded,
// most commonly a malformed date string. Decode failures are permanent:
// retrying the read cannot fix the payload.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode marshals record to its storage payload and merges extra —
// unknown fields captured by a previous Decode — back in. Known fields
// always win over stale extras of the same name.
func Encode(record any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("codec: encode record: %w", err)
	}
	if len(extra) == 0 {
		return data, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: encode record: %w", err)
	}
	for k, v := range extra {
		if _, known := doc[k]; known {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec: encode extra field %q: %w", k, err)
		}
		doc[k] = raw
	}
	return json.Marshal(doc)
}

// Decode unmarshals a storage payload into record and returns the
// payload fields the record's schema does not declare, so callers can
// carry them through a later Encode.
func Decode(data []byte, record any) (map[string]any, error) {
	if err := json.Unmarshal(data, record); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, &DecodeError{Field: "payload", Err: err}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &DecodeError{Field: "payload", Err: err}
	}

	// Re-marshal the typed record to learn its known key set.
	known, err := json.Marshal(record)
	if err != nil {
		return nil, &DecodeError{Field: "payload", Err: err}
	}
	var knownDoc map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownDoc); err != nil {
		return nil, &DecodeError{Field: "payload", Err: err}
	}

	var extra map[string]any
	for k, v := range payload {
		if _, ok := knownDoc[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra, nil
}
