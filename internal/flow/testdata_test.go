/*-------------------------------------------------------------------------
 *
 * testdata_test.go
 *    Unit tests for symbolic test data resolution
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/testdata_test.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"fmt"
	"testing"
	"time"
)

func TestResolveDataSet(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name     string
		dataSet  string
		wantKeys []string
	}{
		{"registration", DataSetRegistrationData, []string{"username", "email", "password", "confirm_password", "first_name", "last_name"}},
		{"credentials", DataSetTestCredentials, []string{"username", "password"}},
		{"login alias", DataSetLoginData, []string{"username", "password"}},
		{"message", DataSetTestMessage, []string{"name", "email", "subject", "message"}},
		{"contact alias", DataSetContactData, []string{"name", "email", "subject", "message"}},
		{"test data", DataSetTestData, []string{"input", "email", "name"}},
		{"default", DataSetDefault, []string{"input", "email", "name"}},
		{"unknown falls back", "no_such_set", []string{"input", "email", "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDataSet(tt.dataSet, now)
			if len(got) != len(tt.wantKeys) {
				t.Errorf("got %d keys, want %d", len(got), len(tt.wantKeys))
			}
			for _, key := range tt.wantKeys {
				if _, ok := got[key]; !ok {
					t.Errorf("missing key %q", key)
				}
			}
		})
	}
}

func TestResolveDataSet_TimeKeyedUniqueness(t *testing.T) {
	first := ResolveDataSet(DataSetRegistrationData, time.Unix(1700000000, 0))
	second := ResolveDataSet(DataSetRegistrationData, time.Unix(1700000001, 0))

	if first["email"] == second["email"] {
		t.Errorf("emails should differ across timestamps: %q", first["email"])
	}
	if first["username"] == second["username"] {
		t.Errorf("usernames should differ across timestamps: %q", first["username"])
	}

	wantEmail := fmt.Sprintf("test_%d@example.com", 1700000000)
	if first["email"] != wantEmail {
		t.Errorf("email = %q, want %q", first["email"], wantEmail)
	}
}

func TestResolveDataSet_Deterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)
	first := ResolveDataSet(DataSetContactData, now)
	second := ResolveDataSet(DataSetContactData, now)

	for key, value := range first {
		if second[key] != value {
			t.Errorf("key %q differs: %q vs %q", key, value, second[key])
		}
	}
}
