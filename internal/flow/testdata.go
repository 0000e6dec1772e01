/*-------------------------------------------------------------------------
 *
 * testdata.go
 *    Symbolic form data sets
 *
 * Form-filling steps reference a named data set instead of carrying
 * literal values. Email and username values embed the current Unix
 * timestamp so repeated registration runs do not collide on unique
 * site-side constraints.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/testdata.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"fmt"
	"time"
)

/* Data set names a fill step may reference */
const (
	DataSetTestData         = "test_data"
	DataSetRegistrationData = "registration_data"
	DataSetTestCredentials  = "test_credentials"
	DataSetLoginData        = "login_data"
	DataSetTestMessage      = "test_message"
	DataSetContactData      = "contact_data"
	DataSetDefault          = "default"
)

/* ResolveDataSet returns the form values for a symbolic data set name.
 * Unknown names fall back to the default set. */
func ResolveDataSet(name string, now time.Time) map[string]string {
	ts := now.Unix()

	switch name {
	case DataSetRegistrationData:
		return map[string]string{
			"username":         fmt.Sprintf("testuser_%d", ts),
			"email":            fmt.Sprintf("test_%d@example.com", ts),
			"password":         "TestPassword123!",
			"confirm_password": "TestPassword123!",
			"first_name":       "Test",
			"last_name":        "User",
		}
	case DataSetTestCredentials, DataSetLoginData:
		return map[string]string{
			"username": "testuser",
			"password": "TestPassword123!",
		}
	case DataSetTestMessage, DataSetContactData:
		return map[string]string{
			"name":    "Test User",
			"email":   fmt.Sprintf("test_%d@example.com", ts),
			"subject": "Automated test message",
			"message": "This is an automated test message. Please ignore.",
		}
	case DataSetTestData, DataSetDefault:
		fallthrough
	default:
		return map[string]string{
			"input": "test value",
			"email": fmt.Sprintf("test_%d@example.com", ts),
			"name":  "Test User",
		}
	}
}
