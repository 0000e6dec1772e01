/*-------------------------------------------------------------------------
 *
 * common_test.go
 *    Unit tests for request validation helpers
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/validation/common_test.go
 *
 *-------------------------------------------------------------------------
 */

package validation

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadAndValidateBody(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1}`))
		body, err := ReadAndValidateBody(r, 64)
		if err != nil {
			t.Fatalf("ReadAndValidateBody failed: %v", err)
		}
		if string(body) != `{"a":1}` {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 65)))
		if _, err := ReadAndValidateBody(r, 64); err == nil {
			t.Error("expected error for oversized body")
		}
	})

	t.Run("empty", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(""))
		if _, err := ReadAndValidateBody(r, 64); err == nil {
			t.Error("expected error for empty body")
		}
	})
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"https", "https://example.com/wp-login.php", false},
		{"http", "http://localhost:8080", false},
		{"ftp", "ftp://example.com", true},
		{"no host", "https://", true},
		{"empty", "", true},
		{"relative", "/wp-admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.value, "start_url")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUUIDRequired(t *testing.T) {
	if err := ValidateUUIDRequired("b3c58b1e-33a5-4a5b-9b6e-2f93a1f3c111", "flow_id"); err != nil {
		t.Errorf("valid UUID rejected: %v", err)
	}
	if err := ValidateUUIDRequired("", "flow_id"); err == nil {
		t.Error("empty value accepted")
	}
	if err := ValidateUUIDRequired("not-a-uuid", "flow_id"); err == nil {
		t.Error("malformed value accepted")
	}
}
