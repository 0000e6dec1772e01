/*-------------------------------------------------------------------------
 *
 * jsonb.go
 *    JSONB value types for database columns
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/jsonb.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

/* JSONBMap is a map that serializes to/from JSONB */
type JSONBMap map[string]interface{}

/* Value implements driver.Valuer */
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

/* Scan implements sql.Scanner */
func (j *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBMap", value)
	}

	return json.Unmarshal(data, j)
}

/* JSONBRaw is a raw JSON document stored in a JSONB column.
 *
 * Used for payloads the database layer treats as opaque (step lists,
 * run logs, suggestion lists) so callers own the schema. */
type JSONBRaw json.RawMessage

/* Value implements driver.Valuer */
func (j JSONBRaw) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

/* Scan implements sql.Scanner */
func (j *JSONBRaw) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONBRaw(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBRaw", value)
	}
	return nil
}

/* MarshalJSON implements json.Marshaler */
func (j JSONBRaw) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

/* UnmarshalJSON implements json.Unmarshaler */
func (j *JSONBRaw) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("JSONBRaw: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}
