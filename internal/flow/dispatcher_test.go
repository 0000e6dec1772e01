/*-------------------------------------------------------------------------
 *
 * dispatcher_test.go
 *    Unit tests for the step action dispatcher
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/dispatcher_test.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neurondb/NeuronFlow/internal/config"
)

func testExecutorConfig() *config.ExecutorConfig {
	return &config.ExecutorConfig{
		TimeoutSeconds: 10,
		RetryAttempts:  0,
		ScreenshotDir:  "./screenshots",
		UserAgent:      "NeuronFlow-Test/1.0",
	}
}

func newTestDispatcher() *Dispatcher {
	d := NewDispatcher(testExecutorConfig(), nil)
	d.sleep = func(time.Duration) {}
	return d
}

func TestDispatcher_Navigate(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	d := newTestDispatcher()
	ctx := context.Background()

	t.Run("success returns status code", func(t *testing.T) {
		result := d.ExecuteStep(ctx, &Step{Action: ActionNavigate, Target: server.URL + "/ok"}, "login", server.URL)
		if !result.Success {
			t.Fatalf("expected success, got error %q", result.Error)
		}
		if result.Details["status_code"] != 200 {
			t.Errorf("status_code = %v, want 200", result.Details["status_code"])
		}
		if gotUserAgent != "NeuronFlow-Test/1.0" {
			t.Errorf("user agent = %q, want NeuronFlow-Test/1.0", gotUserAgent)
		}
	})

	t.Run("client error status fails", func(t *testing.T) {
		result := d.ExecuteStep(ctx, &Step{Action: ActionNavigate, Target: server.URL + "/missing"}, "login", server.URL)
		if result.Success {
			t.Fatal("expected failure for 404")
		}
		if result.Error != "HTTP error 404" {
			t.Errorf("error = %q, want %q", result.Error, "HTTP error 404")
		}
	})

	t.Run("server error status fails", func(t *testing.T) {
		result := d.ExecuteStep(ctx, &Step{Action: ActionNavigate, Target: server.URL + "/broken"}, "login", server.URL)
		if result.Error != "HTTP error 500" {
			t.Errorf("error = %q, want %q", result.Error, "HTTP error 500")
		}
	})

	t.Run("transport error fails", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		result := d.ExecuteStep(ctx, &Step{Action: ActionNavigate, Target: closed.URL}, "login", server.URL)
		if result.Success {
			t.Fatal("expected failure for unreachable server")
		}
		if len(result.Error) == 0 || result.Error[:14] != "Network error:" {
			t.Errorf("error = %q, want Network error prefix", result.Error)
		}
	})

	t.Run("missing target fails", func(t *testing.T) {
		result := d.ExecuteStep(ctx, &Step{Action: ActionNavigate}, "login", server.URL)
		if result.Success {
			t.Fatal("expected failure without target")
		}
	})
}

func TestDispatcher_UnknownAction(t *testing.T) {
	d := newTestDispatcher()
	result := d.ExecuteStep(context.Background(), &Step{Action: "teleport"}, "login", "")
	if result.Success {
		t.Fatal("unknown action must fail")
	}
	if result.Error != "Unknown action: teleport" {
		t.Errorf("error = %q", result.Error)
	}
}

func TestDispatcher_WaitClamping(t *testing.T) {
	tests := []struct {
		name        string
		waitSeconds int
		wantSeconds int
	}{
		{"normal", 3, 3},
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"at cap", 10, 10},
		{"above cap", 60, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher()
			var slept time.Duration
			d.sleep = func(dur time.Duration) { slept = dur }

			result := d.ExecuteStep(context.Background(), &Step{Action: ActionWait, WaitSeconds: tt.waitSeconds}, "login", "")
			if !result.Success {
				t.Fatalf("wait failed: %q", result.Error)
			}
			if slept != time.Duration(tt.wantSeconds)*time.Second {
				t.Errorf("slept %v, want %ds", slept, tt.wantSeconds)
			}
			if result.Details["wait_seconds"] != tt.wantSeconds {
				t.Errorf("wait_seconds = %v, want %d", result.Details["wait_seconds"], tt.wantSeconds)
			}
		})
	}
}

func TestDispatcher_FillForm(t *testing.T) {
	d := newTestDispatcher()

	result := d.ExecuteStep(context.Background(), &Step{Action: ActionFillForm, DataSet: DataSetRegistrationData}, "registration", "")
	if !result.Success {
		t.Fatalf("fill_form failed: %q", result.Error)
	}
	if result.Message != "Filled form with 6 fields" {
		t.Errorf("message = %q", result.Message)
	}
	if result.Details["data_set"] != DataSetRegistrationData {
		t.Errorf("data_set = %v", result.Details["data_set"])
	}
}

func TestDispatcher_SimulatedActionsSucceed(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	for _, action := range []Action{ActionClick, ActionSubmit, ActionScroll, ActionHover, ActionFillInput} {
		t.Run(string(action), func(t *testing.T) {
			result := d.ExecuteStep(ctx, &Step{Action: action, Selector: "#thing"}, "login", "")
			if !result.Success {
				t.Errorf("%s failed: %q", action, result.Error)
			}
		})
	}
}

type fixedProbe struct {
	found bool
	err   error
}

func (p fixedProbe) VerifyElement(ctx context.Context, pageURL, selector string) (bool, error) {
	return p.found, p.err
}

func TestDispatcher_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("stub probe always finds", func(t *testing.T) {
		d := newTestDispatcher()
		result := d.ExecuteStep(ctx, &Step{Action: ActionVerify, Selector: "#login"}, "login", "https://example.com")
		if !result.Success {
			t.Fatalf("verify failed: %q", result.Error)
		}
	})

	t.Run("missing element", func(t *testing.T) {
		d := NewDispatcher(testExecutorConfig(), fixedProbe{found: false})
		d.sleep = func(time.Duration) {}
		result := d.ExecuteStep(ctx, &Step{Action: ActionVerify, Selector: "#gone"}, "login", "https://example.com")
		if result.Success {
			t.Fatal("expected failure for missing element")
		}
		if result.Error != "Element not found: #gone" {
			t.Errorf("error = %q", result.Error)
		}
	})

	t.Run("probe error", func(t *testing.T) {
		d := NewDispatcher(testExecutorConfig(), fixedProbe{err: fmt.Errorf("render crashed")})
		d.sleep = func(time.Duration) {}
		result := d.ExecuteStep(ctx, &Step{Action: ActionVerify, Selector: "#x"}, "login", "https://example.com")
		if result.Success {
			t.Fatal("expected failure for probe error")
		}
	})
}

func TestDispatcher_InteractByFlowType(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	tests := []struct {
		flowType        string
		wantInteraction string
	}{
		{"navigation", "hover_click"},
		{"modal", "modal_cycle"},
		{"login", "click"},
		{"", "click"},
	}

	for _, tt := range tests {
		t.Run("type "+tt.flowType, func(t *testing.T) {
			result := d.ExecuteStep(ctx, &Step{Action: ActionInteract, Selector: "#menu"}, tt.flowType, "")
			if !result.Success {
				t.Fatalf("interact failed: %q", result.Error)
			}
			if result.Details["interaction"] != tt.wantInteraction {
				t.Errorf("interaction = %v, want %q", result.Details["interaction"], tt.wantInteraction)
			}
		})
	}
}

func TestDispatcher_RecordsExecutionTime(t *testing.T) {
	d := newTestDispatcher()
	result := d.ExecuteStep(context.Background(), &Step{Action: ActionClick, Selector: "#a"}, "login", "")
	if result.ExecutionTime < 0 {
		t.Errorf("execution time negative: %f", result.ExecutionTime)
	}
}
