/*-------------------------------------------------------------------------
 *
 * errors.go
 *    API error types and helpers
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/api/errors.go
 *
 *-------------------------------------------------------------------------
 */

package api

import "net/http"

/* APIError carries an HTTP status with request context */
type APIError struct {
	Code      int
	Message   string
	Err       error
	RequestID string
}

/* Error implements the error interface */
func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

/* ErrorResponse is the JSON error envelope */
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

/* Common sentinel errors */
var (
	ErrNotFound   = &APIError{Code: http.StatusNotFound, Message: "resource not found"}
	ErrBadRequest = &APIError{Code: http.StatusBadRequest, Message: "invalid request"}
	ErrInternal   = &APIError{Code: http.StatusInternalServerError, Message: "internal server error"}
)

/* NewError creates an APIError */
func NewError(code int, message string, err error, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Err:       err,
		RequestID: requestID,
	}
}

/* WrapError attaches a request ID to a sentinel error */
func WrapError(base *APIError, requestID string) *APIError {
	return &APIError{
		Code:      base.Code,
		Message:   base.Message,
		Err:       base.Err,
		RequestID: requestID,
	}
}
