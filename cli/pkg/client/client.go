/*-------------------------------------------------------------------------
 *
 * client.go
 *    HTTP client for the NeuronFlow API
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronFlow/cli/pkg/client/client.go
 *
 *-------------------------------------------------------------------------
 */

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Flow struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	FlowType  string          `json:"flow_type"`
	StartURL  string          `json:"start_url"`
	Steps     json.RawMessage `json:"steps,omitempty"`
	Priority  int             `json:"priority"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type RunSummary struct {
	RunID         string          `json:"run_id"`
	FlowID        string          `json:"flow_id"`
	ResultID      string          `json:"result_id"`
	Status        string          `json:"status"`
	StepsExecuted int             `json:"steps_executed"`
	StepsPassed   int             `json:"steps_passed"`
	StepsFailed   int             `json:"steps_failed"`
	ExecutionTime float64         `json:"execution_time"`
	Error         string          `json:"error,omitempty"`
	Suggestions   json.RawMessage `json:"suggestions,omitempty"`
}

type RunBatch struct {
	Runs []RunSummary `json:"runs"`
}

type Result struct {
	ID            string  `json:"id"`
	FlowID        string  `json:"flow_id"`
	RunID         string  `json:"run_id"`
	Status        string  `json:"status"`
	StepsExecuted int     `json:"steps_executed"`
	StepsPassed   int     `json:"steps_passed"`
	StepsFailed   int     `json:"steps_failed"`
	ExecutionTime float64 `json:"execution_time"`
	CompletedAt   string  `json:"completed_at"`
	ErrorMessage  *string `json:"error_message,omitempty"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *Client) CreateFlow(name, flowType, startURL string, steps json.RawMessage, priority int) (string, error) {
	reqBody := map[string]interface{}{
		"name":      name,
		"flow_type": flowType,
		"start_url": startURL,
		"priority":  priority,
	}
	if len(steps) > 0 {
		reqBody["steps"] = steps
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.makeRequest("POST", "/api/v1/flows", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return created.ID, nil
}

func (c *Client) ListFlows() ([]Flow, error) {
	resp, err := c.makeRequest("GET", "/api/v1/flows", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var flows []Flow
	if err := json.NewDecoder(resp.Body).Decode(&flows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return flows, nil
}

func (c *Client) DeleteFlow(flowID string) error {
	resp, err := c.makeRequest("DELETE", fmt.Sprintf("/api/v1/flows/%s", flowID), nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) RunFlow(flowID string) (*RunSummary, error) {
	resp, err := c.makeRequest("POST", fmt.Sprintf("/api/v1/flows/%s/run", flowID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var summary RunSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &summary, nil
}

func (c *Client) RunAll(budgetSeconds int) (*RunBatch, error) {
	body, err := json.Marshal(map[string]interface{}{"budget_seconds": budgetSeconds})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.makeRequest("POST", "/api/v1/flows/run-all", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var batch RunBatch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &batch, nil
}

func (c *Client) ListResults(flowID string, limit int) ([]Result, error) {
	path := fmt.Sprintf("/api/v1/results?limit=%d", limit)
	if flowID != "" {
		path += "&flow_id=" + url.QueryEscape(flowID)
	}
	resp, err := c.makeRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return results, nil
}

func (c *Client) GetReport(resultID string) (json.RawMessage, error) {
	resp, err := c.makeRequest("GET", fmt.Sprintf("/api/v1/results/%s/report", resultID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func (c *Client) Export(format string, limit int) ([]byte, error) {
	resp, err := c.makeRequest("GET", fmt.Sprintf("/api/v1/results/export?format=%s&limit=%d", format, limit), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func (c *Client) makeRequest(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(data))
	}
	return resp, nil
}
