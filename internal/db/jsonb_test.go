/*-------------------------------------------------------------------------
 *
 * jsonb_test.go
 *    Unit tests for JSONB column types
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/jsonb_test.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"encoding/json"
	"testing"
)

func TestJSONBMap_RoundTrip(t *testing.T) {
	m := JSONBMap{"key": "value", "count": float64(3)}

	value, err := m.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned JSONBMap
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if scanned["key"] != "value" || scanned["count"] != float64(3) {
		t.Errorf("scanned = %v", scanned)
	}
}

func TestJSONBMap_NilAndUnsupported(t *testing.T) {
	var m JSONBMap
	value, err := m.Value()
	if err != nil || value != nil {
		t.Errorf("nil map Value = (%v, %v), want (nil, nil)", value, err)
	}

	if err := m.Scan(nil); err != nil {
		t.Errorf("Scan(nil) failed: %v", err)
	}
	if err := m.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestJSONBRaw_RoundTrip(t *testing.T) {
	raw := JSONBRaw(`{"entries":[{"level":"info"}]}`)

	value, err := raw.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned JSONBRaw
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if string(scanned) != string(raw) {
		t.Errorf("scanned = %q, want %q", scanned, raw)
	}
}

func TestJSONBRaw_MarshalsInline(t *testing.T) {
	type wrapper struct {
		Log JSONBRaw `json:"log"`
	}

	data, err := json.Marshal(wrapper{Log: JSONBRaw(`{"a":1}`)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"log":{"a":1}}` {
		t.Errorf("marshaled = %s", data)
	}

	empty, err := json.Marshal(wrapper{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(empty) != `{"log":null}` {
		t.Errorf("empty marshaled = %s", empty)
	}
}
