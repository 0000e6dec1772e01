/*-------------------------------------------------------------------------
 *
 * common.go
 *    Request validation helpers
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/validation/common.go
 *
 *-------------------------------------------------------------------------
 */

package validation

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

/* ReadAndValidateBody reads a request body enforcing a size limit */
func ReadAndValidateBody(r *http.Request, maxSize int64) ([]byte, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("request body is required")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > maxSize {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxSize)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("request body is required")
	}
	return body, nil
}

/* ValidateUUIDRequired checks that a value is a non-empty UUID */
func ValidateUUIDRequired(value, field string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%s must be a valid UUID", field)
	}
	return nil
}

/* ValidateStringRequired checks that a value is non-empty */
func ValidateStringRequired(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

/* ValidateURL checks that a value is an absolute http(s) URL */
func ValidateURL(value, field string) error {
	if err := ValidateStringRequired(value, field); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid URL", field)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}
