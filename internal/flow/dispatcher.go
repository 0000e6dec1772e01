/*-------------------------------------------------------------------------
 *
 * dispatcher.go
 *    Step dispatcher
 *
 * Executes a single flow step. Navigation issues a real HTTP GET; the
 * remaining interactions run in the simulated tier, which validates
 * step shape and data resolution without rendering pages. Element
 * verification goes through the PageProbe seam so a real probe can be
 * plugged in without touching the dispatch table.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/dispatcher.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/neurondb/NeuronFlow/internal/config"
	"github.com/neurondb/NeuronFlow/internal/metrics"
)

/* MaxWaitSeconds caps explicit wait steps */
const MaxWaitSeconds = 10

/* PageProbe checks for an element on a page */
type PageProbe interface {
	VerifyElement(ctx context.Context, pageURL, selector string) (bool, error)
}

/* StubProbe reports every element as present.
 * It stands in until a rendering-capable probe is wired. */
type StubProbe struct{}

/* VerifyElement implements PageProbe */
func (StubProbe) VerifyElement(ctx context.Context, pageURL, selector string) (bool, error) {
	return true, nil
}

/* Dispatcher executes individual flow steps */
type Dispatcher struct {
	client         *http.Client
	userAgent      string
	defaultTimeout time.Duration
	probe          PageProbe
	sleep          func(time.Duration)
	now            func() time.Time
}

/* NewDispatcher creates a step dispatcher from executor settings */
func NewDispatcher(cfg *config.ExecutorConfig, probe PageProbe) *Dispatcher {
	if probe == nil {
		probe = StubProbe{}
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &Dispatcher{
		client:         &http.Client{Timeout: timeout},
		userAgent:      cfg.UserAgent,
		defaultTimeout: timeout,
		probe:          probe,
		sleep:          time.Sleep,
		now:            time.Now,
	}
}

/* ExecuteStep runs one step attempt and reports its outcome.
 * A panic inside a handler is converted into a failed result so one
 * malformed step cannot take down the run. */
func (d *Dispatcher) ExecuteStep(ctx context.Context, step *Step, flowType, startURL string) (result StepResult) {
	start := d.now()
	defer func() {
		if r := recover(); r != nil {
			result = StepResult{
				Success: false,
				Error:   fmt.Sprintf("step panicked: %v", r),
			}
		}
		result.ExecutionTime = d.now().Sub(start).Seconds()
		status := "failed"
		if result.Success {
			status = "passed"
		}
		metrics.RecordStepExecution(string(step.Action), status, d.now().Sub(start))
	}()

	switch step.Action {
	case ActionNavigate:
		return d.navigate(ctx, step)
	case ActionFillForm:
		return d.fillForm(step)
	case ActionFillInput:
		return d.fillInput(step)
	case ActionClick:
		return d.simulated(step, fmt.Sprintf("Clicked %s", targetOf(step)))
	case ActionSubmit:
		return d.simulated(step, fmt.Sprintf("Submitted %s", targetOf(step)))
	case ActionVerify:
		return d.verify(ctx, step, startURL)
	case ActionWait:
		return d.wait(step)
	case ActionScroll:
		return d.simulated(step, fmt.Sprintf("Scrolled to %s", targetOf(step)))
	case ActionHover:
		return d.simulated(step, fmt.Sprintf("Hovered over %s", targetOf(step)))
	case ActionInteract:
		return d.interact(step, flowType)
	default:
		return StepResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown action: %s", step.Action),
		}
	}
}

func (d *Dispatcher) navigate(ctx context.Context, step *Step) StepResult {
	url := step.Target
	if url == "" {
		return StepResult{Success: false, Error: "navigate step has no target URL"}
	}

	timeout := d.defaultTimeout
	if step.TimeoutSeconds > 0 {
		timeout = time.Duration(step.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StepResult{Success: false, Error: fmt.Sprintf("Network error: %v", err)}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return StepResult{Success: false, Error: fmt.Sprintf("Network error: %v", err)}
	}
	defer resp.Body.Close()

	details := map[string]interface{}{"status_code": resp.StatusCode, "url": url}
	if resp.StatusCode >= 400 {
		return StepResult{
			Success: false,
			Error:   fmt.Sprintf("HTTP error %d", resp.StatusCode),
			Details: details,
		}
	}

	return StepResult{
		Success: true,
		Message: fmt.Sprintf("Navigated to %s", url),
		Details: details,
	}
}

func (d *Dispatcher) fillForm(step *Step) StepResult {
	name := step.DataSet
	if name == "" {
		name = DataSetDefault
	}
	values := ResolveDataSet(name, d.now())

	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return StepResult{
		Success: true,
		Message: fmt.Sprintf("Filled form with %d fields", len(values)),
		Details: map[string]interface{}{"data_set": name, "fields": fields},
	}
}

func (d *Dispatcher) fillInput(step *Step) StepResult {
	value := step.Value
	if value == "" {
		name := step.DataSet
		if name == "" {
			name = DataSetDefault
		}
		values := ResolveDataSet(name, d.now())
		if v, ok := values[step.Selector]; ok {
			value = v
		} else {
			value = values["input"]
		}
	}

	return StepResult{
		Success: true,
		Message: fmt.Sprintf("Filled input %s", targetOf(step)),
		Details: map[string]interface{}{"value_length": len(value)},
	}
}

func (d *Dispatcher) verify(ctx context.Context, step *Step, startURL string) StepResult {
	pageURL := step.Target
	if pageURL == "" {
		pageURL = startURL
	}
	criterion := step.Selector
	if criterion == "" {
		criterion = step.Expected
	}

	found, err := d.probe.VerifyElement(ctx, pageURL, criterion)
	if err != nil {
		return StepResult{Success: false, Error: fmt.Sprintf("Verification error: %v", err)}
	}
	if !found {
		return StepResult{
			Success: false,
			Error:   fmt.Sprintf("Element not found: %s", criterion),
		}
	}

	return StepResult{
		Success: true,
		Message: fmt.Sprintf("Verified element %s", criterion),
	}
}

func (d *Dispatcher) wait(step *Step) StepResult {
	seconds := step.WaitSeconds
	if seconds < 0 {
		seconds = 0
	}
	if seconds > MaxWaitSeconds {
		seconds = MaxWaitSeconds
	}
	d.sleep(time.Duration(seconds) * time.Second)

	return StepResult{
		Success: true,
		Message: fmt.Sprintf("Waited %d seconds", seconds),
		Details: map[string]interface{}{"wait_seconds": seconds},
	}
}

func (d *Dispatcher) interact(step *Step, flowType string) StepResult {
	switch flowType {
	case "navigation":
		return StepResult{
			Success: true,
			Message: fmt.Sprintf("Hovered and clicked %s", targetOf(step)),
			Details: map[string]interface{}{"interaction": "hover_click"},
		}
	case "modal":
		d.sleep(time.Second)
		return StepResult{
			Success: true,
			Message: fmt.Sprintf("Opened and closed modal %s", targetOf(step)),
			Details: map[string]interface{}{"interaction": "modal_cycle"},
		}
	default:
		return StepResult{
			Success: true,
			Message: fmt.Sprintf("Interacted with %s", targetOf(step)),
			Details: map[string]interface{}{"interaction": "click"},
		}
	}
}

func (d *Dispatcher) simulated(step *Step, message string) StepResult {
	return StepResult{Success: true, Message: message}
}

func targetOf(step *Step) string {
	if step.Selector != "" {
		return step.Selector
	}
	if step.Target != "" {
		return step.Target
	}
	return "element"
}
