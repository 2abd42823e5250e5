package codec_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/parisxmas/partnerhub/internal/codec"
)

type record struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt codec.Timestamp `json:"createdAt"`
	UpdatedAt codec.Timestamp `json:"updatedAt"`
}

func TestRoundTrip(t *testing.T) {
	created := codec.At(time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC))
	updated := codec.At(time.Date(2026, 3, 15, 10, 0, 0, 1_000_000, time.UTC))
	in := record{ID: "r1", Name: "Acme", CreatedAt: created, UpdatedAt: updated}

	data, err := codec.Encode(in, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out record
	extra, err := codec.Decode(data, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(extra) != 0 {
		t.Fatalf("expected no extra fields, got %v", extra)
	}
	if out.ID != "r1" || out.Name != "Acme" {
		t.Fatalf("fields did not round trip: %+v", out)
	}
	if !out.CreatedAt.Equal(created) {
		t.Fatalf("createdAt: want %v, got %v", created.Time, out.CreatedAt.Time)
	}
	if !out.UpdatedAt.Equal(updated) {
		t.Fatalf("updatedAt: want %v, got %v", updated.Time, out.UpdatedAt.Time)
	}
}

func TestTimestampWireFormat(t *testing.T) {
	ts := codec.At(time.Date(2026, 1, 2, 3, 4, 5, 678_000_000, time.UTC))
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-01-02T03:04:05.678Z"` {
		t.Fatalf("unexpected wire form %s", data)
	}
}

func TestTimestampSubMillisecondTruncation(t *testing.T) {
	ts := codec.At(time.Date(2026, 1, 2, 3, 4, 5, 678_999_999, time.UTC))
	data, _ := json.Marshal(ts)

	var back codec.Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	if !back.Time.Equal(want) {
		t.Fatalf("want %v, got %v", want, back.Time)
	}
}

func TestUnknownFieldsPassThrough(t *testing.T) {
	payload := []byte(`{
		"id": "r2",
		"name": "Globex",
		"createdAt": "2026-03-14T09:26:53.589Z",
		"updatedAt": "2026-03-14T09:26:53.589Z",
		"futureField": {"nested": true},
		"anotherOne": 42
	}`)

	var rec record
	extra, err := codec.Decode(payload, &rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %v", extra)
	}

	data, err := codec.Encode(rec, extra)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal re-encoded payload: %v", err)
	}
	if doc["anotherOne"] != float64(42) {
		t.Fatalf("anotherOne lost: %v", doc["anotherOne"])
	}
	nested, _ := doc["futureField"].(map[string]any)
	if nested["nested"] != true {
		t.Fatalf("futureField lost: %v", doc["futureField"])
	}
	if doc["name"] != "Globex" {
		t.Fatalf("known field clobbered: %v", doc["name"])
	}
}

func TestKnownFieldsWinOverStaleExtras(t *testing.T) {
	rec := record{ID: "r3", Name: "fresh"}
	data, err := codec.Encode(rec, map[string]any{"name": "stale", "other": 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var doc map[string]any
	json.Unmarshal(data, &doc)
	if doc["name"] != "fresh" {
		t.Fatalf("stale extra overwrote known field: %v", doc["name"])
	}
	if doc["other"] != float64(1) {
		t.Fatalf("extra dropped: %v", doc["other"])
	}
}

func TestMalformedDate(t *testing.T) {
	payload := []byte(`{"id": "r4", "createdAt": "not-a-date"}`)
	var rec record
	_, err := codec.Decode(payload, &rec)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var de *codec.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *codec.DecodeError, got %T: %v", err, err)
	}
}
